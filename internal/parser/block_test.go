package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MalithGihan/protocol-extract/pkg/types"
)

func TestBlockScanner_ProtocolPage(t *testing.T) {
	text := "Protocolo de Entrega de Correspondência\n" +
		"12 MARIA DOS SANTOS Loja 3\n" +
		"Cel.: (11) 98765-4321\n"

	got := NewBlockScanner(nil).Parse(types.Document{Pages: []types.Page{{Number: 1, Text: text}}})
	assert.Equal(t, []types.OwnerRecord{{OwnerName: "MARIA DOS SANTOS", Phone: "11987654321"}}, got)
}

func TestBlockScanner_ParseBlock(t *testing.T) {
	s := NewBlockScanner(nil)

	cases := []struct {
		name  string
		block string
		want  types.OwnerRecord
	}{
		{
			name:  "code rule with irregular spacing",
			block: "7 JOÃO   DA   SILVA  Casa 2\nCel.: 51 99999 8888",
			want:  types.OwnerRecord{OwnerName: "JOÃO DA SILVA", Phone: "51999998888"},
		},
		{
			name:  "label rule with name on next line",
			block: "Condomino - Endereço\nANA PAULA SOUZA\nR DAS FLORES 100\nCel.: (51) 98888-7777",
			want:  types.OwnerRecord{OwnerName: "ANA PAULA SOUZA", Phone: "51988887777"},
		},
		{
			name:  "label rule cut at street marker",
			block: "Condomino - Endereço CARLOS LIMA R DAS PALMEIRAS 12\nTel.: (51) 3333-4444",
			want:  types.OwnerRecord{OwnerName: "CARLOS LIMA", Phone: "5133334444"},
		},
		{
			name:  "label rule wins over code rule",
			block: "Condomino - Endereço PEDRO ALVES\n15 OUTRO NOME Sala 2",
			want:  types.OwnerRecord{OwnerName: "PEDRO ALVES"},
		},
		{
			name:  "accented unit kind",
			block: "3 CARLA DIAS Área 5",
			want:  types.OwnerRecord{OwnerName: "CARLA DIAS"},
		},
		{
			name:  "cell phone preferred over landline",
			block: "4 DANIEL REIS Garagem 9\nTel.: (51) 3222-1111\nCel.: (51) 97777-6666",
			want:  types.OwnerRecord{OwnerName: "DANIEL REIS", Phone: "51977776666"},
		},
		{
			name:  "phone without area code",
			block: "5 ELISA M. O'NEIL Sala 10\nCel.: 98765-4321",
			want:  types.OwnerRecord{OwnerName: "ELISA M. O'NEIL", Phone: "987654321"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := s.ParseBlock(c.block)
			require.True(t, ok)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestBlockScanner_SkipsBlockWithoutName(t *testing.T) {
	s := NewBlockScanner(nil)
	_, ok := s.ParseBlock("Cel.: (51) 99999-8888")
	assert.False(t, ok)

	doc := types.Document{Pages: []types.Page{{Number: 1, Text: "Cel.: (51) 99999-8888\n\nCPF: 000.000.000-00"}}}
	assert.Empty(t, s.Parse(doc))
}

func TestBlockScanner_PageAndBlockOrder(t *testing.T) {
	doc := types.Document{Pages: []types.Page{
		{Number: 1, Text: "1 ANA LIMA Apto 101\nCel.: (51) 91111-1111\n\n2 BRUNO COSTA Apto 102\nTel.: (51) 3222-2222"},
		{Number: 2, Text: "   "},
		{Number: 3, Blocks: []string{"", "3 CAIO NUNES Cobertura 1", "so metadata here"}},
		{Number: 4, Text: "\n\n4 DORA VAZ Terreno 8\n\n"},
	}}

	got := NewBlockScanner(nil).Parse(doc)
	assert.Equal(t, []types.OwnerRecord{
		{OwnerName: "ANA LIMA", Phone: "51911111111"},
		{OwnerName: "BRUNO COSTA", Phone: "5132222222"},
		{OwnerName: "CAIO NUNES"},
		{OwnerName: "DORA VAZ"},
	}, got)
}

func TestBlockScanner_EmptyDocument(t *testing.T) {
	got := NewBlockScanner(nil).Parse(types.Document{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
