package systmonline

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"systmonline-cli/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Medication is one row of the repeat medication table, a snapshot
// scraped once per query and never persisted.
type Medication struct {
	// Id is the portal's identifier for the row's checkbox, empty when
	// the medication cannot currently be ordered.
	Id            string
	Name          string
	LastIssued    string
	LastRequested string
	Orderable     bool
}

var lastIssuedRegex = regexp.MustCompile(`Last Issued:\s*(\d{1,2}\s[A-Za-z]{3}\s\d{4})`)

// the portal renders the two dates at different precision: a 4-digit
// year for the last issue, a 2-digit year for the last request
var lastRequestedRegex = regexp.MustCompile(`Last requested\s*(\d{1,2}\s[A-Za-z]{3}\s\d{2})`)

// QueryMedications replays the medication form's hidden state and
// parses the repeat medication table out of the response.
func (c *Client) QueryMedications(ctx context.Context) ([]Medication, error) {
	ctx, span := tracer.Start(ctx, "client:QueryMedications")
	defer span.End()

	data, err := c.ExtractFormData("Medication")
	if err != nil {
		span.SetStatus(codes.Error, "failed to find medication form")
		return nil, fmt.Errorf("medication form: %w", err)
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormDataFromValues(data.Encode()).
		Post("/2/Medication")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch medication list")
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse medication list html")
		return nil, err
	}
	c.page = doc

	meds := parseMedications(doc)
	span.SetAttributes(attribute.Int("count", len(meds)))
	return meds, nil
}

func parseMedications(doc *goquery.Document) []Medication {
	var meds []Medication
	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			// header row
			return
		}
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		detail := cells.Eq(1)
		heading := detail.Find("h3")
		if heading.Length() == 0 {
			// rows without a drug name heading are spacing or notes,
			// not medication entries
			return
		}
		name := htmlutil.CleanText(heading.Text())

		med := Medication{Name: name}
		if checkbox := findCheckbox(row); checkbox != nil {
			med.Orderable = true
			med.Id = checkbox.AttrOr("value", "")
		}

		var details string
		if len(detail.Nodes) > 0 {
			details = htmlutil.JoinedText(detail.Nodes[0], "\n")
		}
		details = strings.ReplaceAll(details, name, "")
		med.LastIssued = firstGroup(lastIssuedRegex, details)
		med.LastRequested = firstGroup(lastRequestedRegex, details)

		meds = append(meds, med)
	})
	return meds
}

func findCheckbox(row *goquery.Selection) *goquery.Selection {
	var checkbox *goquery.Selection
	row.Find("input").EachWithBreak(func(_ int, input *goquery.Selection) bool {
		if strings.EqualFold(input.AttrOr("type", ""), "checkbox") {
			checkbox = input
			return false
		}
		return true
	})
	return checkbox
}

// a missing date is an expected outcome, never an error
func firstGroup(re *regexp.Regexp, s string) string {
	groups := re.FindStringSubmatch(s)
	if len(groups) < 2 {
		return ""
	}
	return groups[1]
}
