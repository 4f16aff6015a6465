// Package discover resolves the storage endpoint a host advertises over
// DNS. A deployment publishes a TXT record at _ownkv.<host> of the form
// "endpoint=<url>"; clients resolve it to find where an owner's data is
// served.
package discover

import (
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"
)

const (
	// txtLabel is prepended to the host when querying for an endpoint
	// record: _ownkv.<host> TXT "endpoint=<url>".
	txtLabel = "_ownkv"

	// endpointPrefix marks the endpoint attribute inside a TXT record.
	endpointPrefix = "endpoint="

	// defaultUpstream is the default recursive resolver.
	defaultUpstream = "8.8.8.8:53"

	// queryTimeout bounds a single DNS exchange.
	queryTimeout = 10 * time.Second

	// edns0BufSize is the EDNS0 UDP buffer size.
	edns0BufSize = 4096
)

// Resolver looks up TXT records. Tests substitute a mock.
type Resolver interface {
	LookupTXT(name string) ([]string, error)
}

// DNSResolver implements Resolver against a recursive upstream. With
// RequireDNSSEC set, responses must carry the AD flag, i.e. the upstream
// resolver validated the records.
type DNSResolver struct {
	// Upstream is the recursive resolver address (e.g., "8.8.8.8:53").
	Upstream string

	// RequireDNSSEC rejects responses without the AD flag.
	RequireDNSSEC bool
}

// Compile-time interface check.
var _ Resolver = (*DNSResolver)(nil)

// NewDNSResolver creates a DNSResolver. An empty upstream defaults to
// "8.8.8.8:53".
func NewDNSResolver(upstream string) *DNSResolver {
	if upstream == "" {
		upstream = defaultUpstream
	}
	return &DNSResolver{Upstream: upstream}
}

// LookupTXT queries TXT records for name. Multi-string records are
// concatenated, matching resolver behavior.
func (r *DNSResolver) LookupTXT(name string) ([]string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), dns.TypeTXT)
	msg.RecursionDesired = true
	if r.RequireDNSSEC {
		msg.SetEdns0(edns0BufSize, true) // DO (DNSSEC OK) flag
	}

	client := &dns.Client{Timeout: queryTimeout}
	resp, _, err := client.Exchange(msg, r.Upstream)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", ErrLookupFailed, name, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%w: query %s: rcode %s",
			ErrLookupFailed, name, dns.RcodeToString[resp.Rcode])
	}
	if r.RequireDNSSEC && !resp.AuthenticatedData {
		return nil, fmt.Errorf("%w: AD flag not set for %s", ErrDNSSECFailed, name)
	}

	var records []string
	for _, rr := range resp.Answer {
		if txt, ok := rr.(*dns.TXT); ok {
			records = append(records, strings.Join(txt.Txt, ""))
		}
	}
	return records, nil
}

// Endpoint resolves the storage endpoint advertised for host using the
// given resolver. The first record carrying a non-empty endpoint
// attribute wins.
func Endpoint(host string, resolver Resolver) (string, error) {
	if host == "" {
		return "", fmt.Errorf("%w: empty host", ErrNoEndpoint)
	}

	records, err := resolver.LookupTXT(txtLabel + "." + host)
	if err != nil {
		return "", err
	}

	for _, rec := range records {
		for _, field := range strings.Fields(rec) {
			if strings.HasPrefix(field, endpointPrefix) {
				if endpoint := strings.TrimPrefix(field, endpointPrefix); endpoint != "" {
					return endpoint, nil
				}
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoEndpoint, host)
}
