package mtgio

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pageResponse() *http.Response {
	h := http.Header{}
	h.Set("Link", `<https://api.magicthegathering.io/v1/cards?page=2>; rel="next"`)
	h.Set("Page-Size", "100")
	h.Set("Count", "100")
	h.Set("Total-Count", "93643")
	h.Set("Ratelimit-Limit", "1000")
	h.Set("Ratelimit-Remaining", "999")
	return &http.Response{Header: h}
}

func TestPageHeaderFrom(t *testing.T) {
	header, err := PageHeaderFrom(pageResponse())
	assert.NoError(t, err)

	assert.Contains(t, header.Link, "page=2")
	assert.Equal(t, uint64(100), header.PageSize)
	assert.Equal(t, uint64(100), header.Count)
	assert.Equal(t, uint64(93643), header.TotalCount)
	assert.Equal(t, uint64(1000), header.RatelimitLimit)
	assert.Equal(t, uint64(999), header.RatelimitRemaining)
}

func TestPageHeaderMissingField(t *testing.T) {
	resp := pageResponse()
	resp.Header.Del("Total-Count")

	_, err := PageHeaderFrom(resp)
	assert.Error(t, err)

	// a missing field is reported as missing, not as a parse failure
	var missingErr *HeaderMissingError
	assert.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "Total-Count", missingErr.Field)
}

func TestPageHeaderNonNumeric(t *testing.T) {
	resp := pageResponse()
	resp.Header.Set("Page-Size", " 12 ")

	_, err := PageHeaderFrom(resp)
	assert.Error(t, err)

	var convErr *HeaderConversionError
	assert.ErrorAs(t, err, &convErr)
	assert.NotEmpty(t, convErr.Message)
}

func TestPageHeaderNoPartialSnapshot(t *testing.T) {
	resp := pageResponse()
	resp.Header.Del("Ratelimit-Remaining")

	header, err := PageHeaderFrom(resp)
	assert.Error(t, err)
	assert.Equal(t, PageHeader{}, header)
}
