package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MalithGihan/protocol-extract/internal/common"
)

func TestDetectType(t *testing.T) {
	assert.Equal(t, TypePDF, DetectType("Protocolo.PDF"))
	assert.Equal(t, TypeText, DetectType("dump.txt"))
	assert.Equal(t, TypeUnknown, DetectType("foto.png"))
	assert.Equal(t, TypeUnknown, DetectType("semextensao"))
}

func TestCheck(t *testing.T) {
	_, err := Check("a.pdf", []byte("%PDF-1.7\n..."))
	assert.NoError(t, err)

	cases := map[string][]byte{
		"a.pdf":  []byte("not a pdf"),
		"a.docx": []byte("%PDF-1.7"),
		"b.pdf":  nil,
		"c.txt":  {0xff, 0xfe, 0xfd},
	}
	for name, content := range cases {
		_, err := Check(name, content)
		assert.ErrorIs(t, err, common.ErrInvalidInput, name)
	}
}

func TestCheckCarriesErrorCode(t *testing.T) {
	_, err := Check("b.pdf", nil)
	var ae *common.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, common.CodeInvalidInput, ae.Code)
	assert.Equal(t, `empty file "b.pdf"`, ae.Message)
	assert.Equal(t, common.CodeInvalidInput, common.CodeOf(err))
}

func TestExtractText(t *testing.T) {
	doc, err := Extract(context.Background(), "dump.txt", []byte("12 ANA Loja 1\r\nCel.: 11 91111-1111\f\f3 BIA Box 2\f"))
	require.NoError(t, err)
	require.Len(t, doc.Pages, 3)
	assert.Equal(t, "dump.txt", doc.Name)
	assert.Equal(t, "12 ANA Loja 1\nCel.: 11 91111-1111", doc.Pages[0].Text)
	assert.Equal(t, "", doc.Pages[1].Text)
	assert.Equal(t, 3, doc.Pages[2].Number)
	assert.Nil(t, doc.Pages[2].Blocks)
}

func TestExtractBrokenPDF(t *testing.T) {
	_, err := Extract(context.Background(), "broken.pdf", []byte("%PDF-1.4\nthis is not really a pdf"))
	assert.ErrorIs(t, err, common.ErrExtraction)
	assert.Equal(t, common.CodeExtraction, common.CodeOf(err))
}

func TestExtractRejectsBeforeReading(t *testing.T) {
	_, err := Extract(context.Background(), "scan.jpg", []byte{0xff, 0xd8})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
