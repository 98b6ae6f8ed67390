// Package seqid canonicalizes raw sequence identifiers and provides the
// identifier sets the evaluation engine is built on.
//
// Hit tables, label files, and seed alignments spell the same sequence in
// different shapes: "sp|P84875|PCPI_SABMA", "APLP2_HUMAN/309-361", or a bare
// accession. Every identifier entering the pipeline goes through Canonical
// exactly once, so that set intersections compare like with like.
package seqid

import "strings"

// databasePrefixes are the tags recognized in pipe-delimited identifiers
// such as "sp|P84875|PCPI_SABMA": UniProtKB reviewed/unreviewed plus the
// defline tags used by NCBI-style sequence databases.
var databasePrefixes = map[string]bool{
	"sp":  true, // UniProtKB/Swiss-Prot
	"tr":  true, // UniProtKB/TrEMBL
	"gi":  true,
	"gb":  true,
	"emb": true,
	"dbj": true,
	"ref": true,
	"pdb": true,
	"pir": true,
	"prf": true,
}

// Canonical derives the canonical identity key for a raw identifier.
// A pipe-delimited form whose first segment is a recognized database tag
// resolves to its second segment (the accession). Everything else resolves
// to the substring before the first '/', stripping range suffixes like
// "/309-361". Unrecognized shapes pass through unchanged.
func Canonical(raw string) string {
	if strings.Contains(raw, "|") {
		parts := strings.Split(raw, "|")
		if len(parts) >= 2 && databasePrefixes[parts[0]] {
			return parts[1]
		}
	}
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		return raw[:i]
	}
	return raw
}
