package systmonline

import (
	"bytes"
	"context"
	"testing"

	"systmonline-cli/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestParseMedications(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/systmonline")
	defer cleanup()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(medicationsFixture))
	require.NoError(t, err)

	meds := parseMedications(doc)
	require.Len(t, meds, 3)

	require.Equal(t, Medication{
		Id:            "1234",
		Name:          "Atorvastatin 20mg tablets",
		LastIssued:    "5 Jan 2023",
		LastRequested: "5 Jan 23",
		Orderable:     true,
	}, meds[0])

	// no checkbox means the portal won't take a request for the row;
	// the markup carries a doubled space in the heading which must come
	// out collapsed
	require.Equal(t, Medication{
		Id:            "",
		Name:          "Salbutamol 100micrograms/dose inhaler",
		LastIssued:    "12 Feb 2023",
		LastRequested: "",
		Orderable:     false,
	}, meds[1])

	require.Equal(t, Medication{
		Id:        "5678",
		Name:      "Metformin 500mg tablets",
		Orderable: true,
	}, meds[2])
}

func TestDateExtraction(t *testing.T) {
	require.Equal(t, "5 Jan 2023", firstGroup(lastIssuedRegex, "Last Issued: 5 Jan 2023"))
	require.Equal(t, "5 Jan 23", firstGroup(lastRequestedRegex, "Last requested 5 Jan 23"))

	// the request date is deliberately lower precision than the issue
	// date, a 4-digit year must not satisfy it beyond two digits
	require.Equal(t, "", firstGroup(lastIssuedRegex, "Last Issued: 5 Jan 23"))
	require.Equal(t, "", firstGroup(lastIssuedRegex, "Take one at night"))
	require.Equal(t, "", firstGroup(lastRequestedRegex, ""))
}

func TestQueryMedicationsWithoutForm(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/systmonline")
	defer cleanup()

	client := clientWithPage(t, loginErrorFixture)
	_, err := client.QueryMedications(context.Background())
	require.ErrorIs(t, err, ErrFormNotFound)
}
