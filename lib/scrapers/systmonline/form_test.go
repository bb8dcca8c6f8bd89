package systmonline

import (
	"bytes"
	"testing"

	"systmonline-cli/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	_ "embed"
)

//go:embed testdata/login_error.html
var loginErrorFixture []byte

//go:embed testdata/main_menu.html
var mainMenuFixture []byte

//go:embed testdata/medications.html
var medicationsFixture []byte

//go:embed testdata/confirm.html
var confirmFixture []byte

func clientWithPage(t testing.TB, fixture []byte) *Client {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(fixture))
	require.NoError(t, err)
	return &Client{page: doc}
}

func TestExtractFormData(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/systmonline")
	defer cleanup()

	client := clientWithPage(t, confirmFixture)

	data, err := client.ExtractFormData("RequestMedication")
	require.NoError(t, err)

	// hidden fields only, in document order, repeated names folded
	// into a Multiple value
	require.Equal(t, []string{"SessionToken", "Drug", "Stage", "Notes"}, data.Names())

	token, ok := data.Get("SessionToken")
	require.True(t, ok)
	require.False(t, token.Multi())
	require.Equal(t, "c0ffee", token.Value())

	drugs, ok := data.Get("Drug")
	require.True(t, ok)
	require.True(t, drugs.Multi())
	require.Equal(t, []string{"1234", "5678"}, drugs.Values())

	notes, ok := data.Get("Notes")
	require.True(t, ok)
	require.Equal(t, "", notes.Value())

	_, ok = data.Get("PatientComment")
	require.False(t, ok)
	// the GET form with the same action must not shadow the POST one
	_, ok = data.Get("Ignored")
	require.False(t, ok)

	encoded := data.Encode()
	require.Equal(t, []string{"1234", "5678"}, encoded["Drug"])
	require.Equal(t, []string{"c0ffee"}, encoded["SessionToken"])
}

func TestExtractFormDataNotFound(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/systmonline")
	defer cleanup()

	client := clientWithPage(t, mainMenuFixture)
	_, err := client.ExtractFormData("RequestMedication")
	require.ErrorIs(t, err, ErrFormNotFound)

	// a client that never retrieved a page has no form to extract
	empty := &Client{}
	_, err = empty.ExtractFormData("Medication")
	require.ErrorIs(t, err, ErrFormNotFound)
}

func TestFormDataSetOverrides(t *testing.T) {
	data := NewFormData()
	data.Add("Drug", "1")
	data.Add("Drug", "2")
	data.Set("Drug", Multiple("9", "8"))
	data.Set("MedRequestType", Single("Request existing medication"))

	require.Equal(t, []string{"Drug", "MedRequestType"}, data.Names())

	drugs, ok := data.Get("Drug")
	require.True(t, ok)
	require.Equal(t, []string{"9", "8"}, drugs.Values())

	encoded := data.Encode()
	require.Equal(t, []string{"Request existing medication"}, encoded["MedRequestType"])
}
