package uniprot

import "strings"

// Entry is the slice of a UniProtKB entry document the novelty pass needs:
// identity plus the three places a domain-family annotation can live.
type Entry struct {
	PrimaryAccession string     `json:"primaryAccession"`
	UniProtKBID      string     `json:"uniProtkbId"`
	Features         []Feature  `json:"features"`
	Keywords         []Keyword  `json:"keywords"`
	CrossReferences  []CrossRef `json:"uniProtKBCrossReferences"`
}

// Feature is a sequence annotation such as a domain or site.
type Feature struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Keyword is a controlled-vocabulary annotation. The REST API spells the
// text "name"; older mirrors spell it "value", so both are decoded.
type Keyword struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Text returns the keyword text regardless of which spelling the server
// used.
func (k Keyword) Text() string {
	if k.Name != "" {
		return k.Name
	}
	return k.Value
}

// CrossRef is a link into another database, e.g. a Pfam family accession.
type CrossRef struct {
	Database string `json:"database"`
	ID       string `json:"id"`
}

// HasDomainAnnotation reports whether the entry already carries the target
// family: the keyword appears (case-insensitive substring) in any feature
// description or keyword text, or the Pfam accession appears as a
// cross-reference. Empty keyword or pfam disables that check.
func (e *Entry) HasDomainAnnotation(keyword, pfam string) bool {
	if kw := strings.ToLower(keyword); kw != "" {
		for _, f := range e.Features {
			if strings.Contains(strings.ToLower(f.Description), kw) {
				return true
			}
		}
		for _, k := range e.Keywords {
			if strings.Contains(strings.ToLower(k.Text()), kw) {
				return true
			}
		}
	}
	if pfam != "" {
		for _, x := range e.CrossReferences {
			if x.Database == "Pfam" && x.ID == pfam {
				return true
			}
		}
	}
	return false
}

// searchResponse is the envelope of the /search endpoint.
type searchResponse struct {
	Results []Entry `json:"results"`
}
