package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeListAcceptsBothShapes(t *testing.T) {
	bare, err := DecodeList([]byte(`[{"id": 1, "status": "PAID"}, {"id": 2}]`))
	require.NoError(t, err)
	require.Len(t, bare, 2)

	wrapped, err := DecodeList([]byte(`{"items": [{"id": 1, "status": "PAID"}, {"id": 2}], "total": 2}`))
	require.NoError(t, err)
	require.Len(t, wrapped, 2)

	assert.Equal(t, bare[0].Status("status"), wrapped[0].Status("status"))
	assert.Equal(t, float64(1), bare[0].Number("id"))
}

func TestDecodeListEmptyInputs(t *testing.T) {
	for _, payload := range []string{"", "null", `{"items": null}`, "[]"} {
		list, err := DecodeList([]byte(payload))
		require.NoError(t, err, payload)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	}
}

func TestDecodeListRejectsOtherShapes(t *testing.T) {
	for _, payload := range []string{`{"data": []}`, `"text"`, `{"items": {"id": 1}}`, `[`} {
		list, err := DecodeList([]byte(payload))
		assert.Error(t, err, payload)
		assert.Empty(t, list)
	}
}

func TestDecodeListSkipsNonObjects(t *testing.T) {
	list, err := DecodeList([]byte(`[1, "two", {"id": 3}, null]`))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "3", list[0].ID(0))
}
