package systmonline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrNoneSelected reports an order attempt with no medication ids. No
// network request is made in that case.
var ErrNoneSelected = errors.New("no medications selected for ordering")

const requestTypeExisting = "Request existing medication"

// OrderMedications replays the portal's two-step request workflow. The
// first submission moves the remote session into a confirmation state;
// the second submits the confirmation fields freshly extracted from the
// page the first one produced. Success is judged from the HTTP status
// of the second response alone, the portal's confirmation page content
// is not inspected.
func (c *Client) OrderMedications(ctx context.Context, ids []string) error {
	ctx, span := tracer.Start(ctx, "client:OrderMedications")
	defer span.End()

	if len(ids) == 0 {
		span.SetStatus(codes.Error, ErrNoneSelected.Error())
		return ErrNoneSelected
	}
	span.SetAttributes(attribute.StringSlice("ids", ids))

	data, err := c.ExtractFormData("RequestMedication")
	if err != nil {
		span.SetStatus(codes.Error, "failed to find request form")
		return fmt.Errorf("request form: %w", err)
	}
	data.Set("Drug", Multiple(ids...))
	data.Set("MedRequestType", Single(requestTypeExisting))

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormDataFromValues(data.Encode()).
		Post("/2/RequestMedication")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit request")
		return err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse request response html")
		return err
	}
	c.page = doc

	// the confirmation fields only exist on the page the first
	// submission produced
	data, err = c.ExtractFormData("RequestMedication")
	if err != nil {
		span.SetStatus(codes.Error, "failed to find confirmation form")
		return fmt.Errorf("confirmation form: %w", err)
	}

	res, err = c.Http.R().
		SetContext(ctx).
		SetFormDataFromValues(data.Encode()).
		Post("/2/RequestMedication")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit confirmation")
		return err
	}
	if !res.IsSuccess() {
		err := fmt.Errorf("medication request rejected: %s", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
