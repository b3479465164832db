package mtgio

import (
	"net/http"
	"strconv"
)

// Header field names on the page-listing endpoint. All six are required.
const (
	headerLink               = "Link"
	headerPageSize           = "Page-Size"
	headerCount              = "Count"
	headerTotalCount         = "Total-Count"
	headerRatelimitLimit     = "Ratelimit-Limit"
	headerRatelimitRemaining = "Ratelimit-Remaining"
)

// PageHeader is the pagination and rate-limit snapshot carried in the
// headers of a page-listing response.
type PageHeader struct {
	Link               string
	PageSize           uint64
	Count              uint64
	TotalCount         uint64
	RatelimitLimit     uint64
	RatelimitRemaining uint64
}

// PageHeaderFrom extracts the six-field snapshot from a response. The first
// missing or unparseable field aborts the extraction; partial snapshots are
// never produced.
func PageHeaderFrom(resp *http.Response) (PageHeader, error) {
	var h PageHeader
	var err error

	if h.Link, err = headerField(resp, headerLink); err != nil {
		return PageHeader{}, err
	}
	if h.PageSize, err = headerUint(resp, headerPageSize); err != nil {
		return PageHeader{}, err
	}
	if h.Count, err = headerUint(resp, headerCount); err != nil {
		return PageHeader{}, err
	}
	if h.TotalCount, err = headerUint(resp, headerTotalCount); err != nil {
		return PageHeader{}, err
	}
	if h.RatelimitLimit, err = headerUint(resp, headerRatelimitLimit); err != nil {
		return PageHeader{}, err
	}
	if h.RatelimitRemaining, err = headerUint(resp, headerRatelimitRemaining); err != nil {
		return PageHeader{}, err
	}

	return h, nil
}

func headerField(resp *http.Response, name string) (string, error) {
	values, ok := resp.Header[http.CanonicalHeaderKey(name)]
	if !ok || len(values) == 0 {
		return "", &HeaderMissingError{Field: name}
	}
	return values[0], nil
}

func headerUint(resp *http.Response, name string) (uint64, error) {
	value, err := headerField(resp, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, &HeaderConversionError{Message: err.Error()}
	}
	return n, nil
}
