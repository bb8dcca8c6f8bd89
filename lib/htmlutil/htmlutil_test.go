package htmlutil

import (
	"bytes"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestJoinedText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(`<div>
		<h3>Atorvastatin 20mg tablets</h3>
		Take one at night<br>
		Last Issued: 5 Jan 2023
	</div>`)))
	require.NoError(t, err)

	cell := doc.Find("div")
	require.Len(t, cell.Nodes, 1)
	require.Equal(
		t,
		"Atorvastatin 20mg tablets\nTake one at night\nLast Issued: 5 Jan 2023",
		JoinedText(cell.Nodes[0], "\n"),
	)
}

func TestCleanText(t *testing.T) {
	require.Equal(
		t,
		"Atorvastatin 20mg tablets",
		CleanText(" Atorvastatin  20mg   tablets \n"),
	)
}
