package printer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(data []byte) []string {
	return strings.Split(string(data), string(rune(LF)))
}

func TestDocument_KeyValueFillsWidth(t *testing.T) {
	doc := NewDocument(20)
	doc.KeyValue("Total:", "169.50")

	out := lines(bytes.TrimPrefix(doc.Bytes(), []byte{ESC, '@'}))
	require.NotEmpty(t, out)
	assert.Len(t, out[0], 20)
	assert.True(t, strings.HasPrefix(out[0], "Total:"))
	assert.True(t, strings.HasSuffix(out[0], "169.50"))
}

func TestDocument_ItemLineTruncatesName(t *testing.T) {
	doc := NewDocument(16)
	doc.ItemLine(2, "Extremely long product name", "10.00")

	out := lines(bytes.TrimPrefix(doc.Bytes(), []byte{ESC, '@'}))
	assert.Len(t, out[0], 16)
	assert.True(t, strings.HasSuffix(out[0], "10.00"))
	assert.True(t, strings.HasPrefix(out[0], "2x Extr"))
}

func TestDocument_WrapBreaksOnSpaces(t *testing.T) {
	doc := NewDocument(10)
	doc.Wrap("thank you for shopping")

	out := lines(bytes.TrimPrefix(doc.Bytes(), []byte{ESC, '@'}))
	assert.Equal(t, []string{"thank you", "for", "shopping", ""}, out)
}

func TestDocument_QRCodeStoresPayload(t *testing.T) {
	doc := NewDocument(32)
	doc.QRCode("https://erp.example.com/inv/1", 0)

	data := doc.Bytes()
	assert.True(t, bytes.Contains(data, []byte("https://erp.example.com/inv/1")))
	assert.True(t, bytes.Contains(data, []byte{GS, '(', 'k', 3, 0, 49, 67, 6}))
}

func TestNewPrinterFromConfig(t *testing.T) {
	p, err := NewPrinterFromConfig("none", "", "")
	require.NoError(t, err)
	assert.Equal(t, "none", p.Kind())
	assert.NoError(t, p.Print(context.Background(), []byte("x")))

	_, err = NewPrinterFromConfig("usb", "", "")
	assert.Error(t, err)
	_, err = NewPrinterFromConfig("network", "", "")
	assert.Error(t, err)
	_, err = NewPrinterFromConfig("bluetooth", "", "")
	assert.Error(t, err)
}

func TestBufferPrinter(t *testing.T) {
	p := &BufferPrinter{}
	require.NoError(t, p.Print(context.Background(), []byte("job")))
	assert.Len(t, p.Jobs(), 1)

	p.Err = errors.New("paper out")
	assert.Error(t, p.Print(context.Background(), []byte("job")))
	assert.False(t, p.IsConnected())
}
