package registryclient

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/medregistry/search-gateway/failure"
)

// The registry speaks SOAP 1.1. Requests are marshalled with explicit soap:
// prefixes; responses are matched on local element names so the namespace
// prefix the backend happens to emit does not matter.

type requestEnvelope struct {
	XMLName xml.Name    `xml:"soap:Envelope"`
	SoapNS  string      `xml:"xmlns:soap,attr"`
	Body    requestBody `xml:"soap:Body"`
}

type requestBody struct {
	Search drugSearchRequest `xml:"DrugSearchRequest"`
}

type drugSearchRequest struct {
	Term          string `xml:"Term"`
	Manufacturer  string `xml:"Manufacturer,omitempty"`
	AtcCode       string `xml:"AtcCode,omitempty"`
	Page          int    `xml:"Page"`
	Size          int    `xml:"Size"`
	SortField     string `xml:"SortField"`
	SortDirection string `xml:"SortDirection"`
}

type responseEnvelope struct {
	Body responseBody `xml:"Body"`
}

type responseBody struct {
	Fault  *soapFault          `xml:"Fault"`
	Search *drugSearchResponse `xml:"DrugSearchResponse"`
}

type soapFault struct {
	Code string `xml:"faultcode"`
	Text string `xml:"faultstring"`
}

type drugSearchResponse struct {
	TotalElements int64    `xml:"totalElements,attr"`
	Drugs         []Record `xml:"Drug"`
}

// Record is one raw drug record as reported by the upstream, before domain
// mapping.
type Record struct {
	ID                   string   `xml:"id,attr"`
	Name                 string   `xml:"Name"`
	Manufacturer         string   `xml:"Manufacturer"`
	AtcCode              string   `xml:"AtcCode"`
	Ingredients          []string `xml:"Ingredient"`
	PrescriptionRequired bool     `xml:"PrescriptionRequired"`
	Reimbursable         bool     `xml:"Reimbursable"`
	Status               string   `xml:"Status"`
}

// Page is a decoded upstream result page.
type Page struct {
	TotalElements int64
	Records       []Record
}

// DecodePage parses repaired payload text into a Page. A protocol-level
// fault in the body becomes an UpstreamFault; anything structurally
// unreadable becomes Unclassified.
func DecodePage(text string) (*Page, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	// The payload has already been transcoded to UTF-8; the charset the
	// prolog still declares must be ignored.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var env responseEnvelope
	if err := dec.Decode(&env); err != nil {
		return nil, failure.Unclassified("malformed upstream payload", err)
	}

	if env.Body.Fault != nil {
		return nil, failure.UpstreamFault(env.Body.Fault.Code, env.Body.Fault.Text)
	}
	if env.Body.Search == nil {
		return nil, failure.Unclassified("upstream payload is missing the search response body", nil)
	}

	return &Page{
		TotalElements: env.Body.Search.TotalElements,
		Records:       env.Body.Search.Drugs,
	}, nil
}
