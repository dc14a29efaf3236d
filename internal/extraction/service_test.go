package extraction

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MalithGihan/protocol-extract/internal/common"
	"github.com/MalithGihan/protocol-extract/internal/parser"
	"github.com/MalithGihan/protocol-extract/internal/store"
	"github.com/MalithGihan/protocol-extract/pkg/types"
)

const protocolPage = "Protocolo de Entrega de Correspondência\n" +
	"12 MARIA DOS SANTOS Loja 3\n" +
	"Cel.: (11) 98765-4321\n"

type countingStore struct {
	store.Store
	puts int
}

func (c *countingStore) Put(ctx context.Context, ex types.Extraction) error {
	c.puts++
	return c.Store.Put(ctx, ex)
}

func newService() (*Service, *countingStore) {
	st := &countingStore{Store: store.NewMemory(0)}
	return NewService(parser.NewRegistry(nil), st, nil, Options{Timeout: 5 * time.Second}), st
}

func TestSubmitAndRetrieve(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	ex, err := svc.Submit(ctx, Submission{Filename: "protocolo.txt", Content: []byte(protocolPage)})
	require.NoError(t, err)
	assert.NotEmpty(t, ex.ID)
	assert.Equal(t, "guarida", ex.Provider)
	assert.Equal(t, 1, ex.Pages)
	assert.Equal(t, 1, st.puts)

	records, err := svc.Results(ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, []types.OwnerRecord{{OwnerName: "MARIA DOS SANTOS", Phone: "11987654321"}}, records)

	meta, err := svc.Extraction(ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, "protocolo.txt", meta.Filename)
	assert.False(t, meta.CreatedAt.IsZero())
}

func TestSubmitLineProvider(t *testing.T) {
	svc, _ := newService()
	ex, err := svc.Submit(context.Background(), Submission{
		Filename: "protocolo.txt",
		Content:  []byte("Loja 10\nRITA MELO\nCel.: (11) 91234-0000\f Box 2\nSEM TELEFONE\n"),
		Provider: "PROTOCOLO",
	})
	require.NoError(t, err)
	assert.Equal(t, "protocolo", ex.Provider)
	assert.Equal(t, 2, ex.Pages)
	assert.Equal(t, []types.OwnerRecord{
		{OwnerName: "RITA MELO", Phone: "11912340000"},
		{OwnerName: "SEM TELEFONE"},
	}, ex.Records)
}

func TestSubmitPDF(t *testing.T) {
	content, err := os.ReadFile("../ingest/testdata/protocolo.pdf")
	require.NoError(t, err)

	svc, st := newService()
	ex, err := svc.Submit(context.Background(), Submission{
		Filename: "protocolo.pdf",
		Content:  content,
		Provider: "protocolo",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, ex.Pages)
	assert.Equal(t, 1, st.puts)
	assert.Equal(t, []types.OwnerRecord{
		{OwnerName: "FERNANDA ROCHA", Phone: "51988881234"},
		{OwnerName: "GUSTAVO PEREIRA", Phone: "51977770000"},
	}, ex.Records)
}

func TestSubmitFailuresStoreNothing(t *testing.T) {
	cases := []struct {
		name string
		sub  Submission
		want error
	}{
		{"unsupported provider", Submission{Filename: "a.pdf", Content: []byte("%PDF-1.4"), Provider: "unknown"}, common.ErrUnsupportedFormat},
		{"wrong extension", Submission{Filename: "a.docx", Content: []byte("x")}, common.ErrInvalidInput},
		{"missing signature", Submission{Filename: "a.pdf", Content: []byte("hello")}, common.ErrInvalidInput},
		{"unreadable pdf", Submission{Filename: "a.pdf", Content: []byte("%PDF-1.4\ngarbage")}, common.ErrExtraction},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc, st := newService()
			_, err := svc.Submit(context.Background(), c.sub)
			assert.ErrorIs(t, err, c.want)
			assert.Zero(t, st.puts)
		})
	}
}

type brokenStore struct{ store.Store }

func (brokenStore) Put(context.Context, types.Extraction) error { return errors.New("disk full") }

func TestSubmitStoreFailure(t *testing.T) {
	svc := NewService(parser.NewRegistry(nil), brokenStore{store.NewMemory(0)}, nil, Options{})
	_, err := svc.Submit(context.Background(), Submission{Filename: "protocolo.txt", Content: []byte(protocolPage)})
	assert.EqualError(t, err, "storing extraction: disk full")
	assert.Equal(t, common.CodeInternal, common.CodeOf(err))
}

func TestResultsUnknownID(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Results(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestProcessEmptyDocument(t *testing.T) {
	svc, st := newService()
	_, records, err := svc.Process(context.Background(), "vazio.txt", []byte("\f\f"), "")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, st.puts)
}
