package dispatch

import (
	"context"
	"errors"
	"net/http"

	"github.com/pyhub-apps/pdfops-golang/pkg/pdf"
)

// Response is what the request layer sends back: either a download
// (Body, MediaType, Filename) or an error Message.
type Response struct {
	Status    int
	MediaType string
	Filename  string
	Body      []byte
	Message   string
}

// Serve runs the named operation and renders the outcome. Bundles are
// delivered as a single zip stream.
func (d *Dispatcher) Serve(ctx context.Context, name string, req Request) Response {
	res, err := d.Invoke(ctx, name, req)
	if err != nil {
		return errorResponse(err)
	}

	body, err := res.Bytes()
	if err != nil {
		return errorResponse(err)
	}
	return Response{
		Status:    http.StatusOK,
		MediaType: res.MediaType,
		Filename:  res.Filename,
		Body:      body,
	}
}

func errorResponse(err error) Response {
	return Response{
		Status:    StatusCode(err),
		MediaType: "text/plain; charset=utf-8",
		Message:   err.Error(),
	}
}

// StatusCode maps a failure to an HTTP status: 400 for caller mistakes,
// 404 for an unknown operation and 500 for everything else.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var unknown *UnknownOperationError
	if errors.As(err, &unknown) {
		return http.StatusNotFound
	}

	if pdf.KindOf(err).IsValidation() {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
