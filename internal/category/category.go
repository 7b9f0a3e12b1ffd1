// Package category maps website hostnames to coarse category labels.
package category

import (
	"sort"
	"strings"

	"golang.org/x/net/idna"
)

// Other is returned for hostnames whose top-level domain is not in the table.
const Other = "other"

var byTLD = map[string]string{
	"com":  "commercial",
	"org":  "organization",
	"net":  "network",
	"edu":  "education",
	"gov":  "government",
	"mil":  "military",
	"int":  "international",
	"io":   "tech",
	"co":   "company",
	"info": "information",
	"biz":  "business",
	"au":   "australia",
	"uk":   "united kingdom",
	"us":   "united states",
	"ca":   "canada",
	"de":   "germany",
	"fr":   "france",
	"jp":   "japan",
	"cn":   "china",
	"in":   "india",
	"br":   "brazil",
	"ru":   "russia",
	"nz":   "new zealand",
	"za":   "south africa",
}

// Infer returns the category for hostname based on its top-level domain.
func Infer(hostname string) string {
	if label, ok := byTLD[TLD(hostname)]; ok {
		return label
	}
	return Other
}

// Resolve prefers an explicit category over the inferred one.
func Resolve(explicit, hostname string) string {
	if c := strings.TrimSpace(explicit); c != "" {
		return c
	}
	return Infer(hostname)
}

// TLD returns the lower-cased rightmost label of hostname, or "" when the
// hostname has no dot.
func TLD(hostname string) string {
	host := normalizeHost(hostname)
	i := strings.LastIndexByte(host, '.')
	if i < 0 {
		return ""
	}
	return host[i+1:]
}

// Known lists every category label Infer can return, including Other.
func Known() []string {
	out := make([]string, 0, len(byTLD)+1)
	for _, label := range byTLD {
		out = append(out, label)
	}
	out = append(out, Other)
	sort.Strings(out)
	return out
}

func normalizeHost(hostname string) string {
	host := strings.TrimSuffix(strings.TrimSpace(hostname), ".")
	if host == "" {
		return ""
	}
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}
	return strings.ToLower(host)
}
