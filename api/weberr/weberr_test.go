package weberr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewErrorDecorations(t *testing.T) {
	base := errors.New("course[abc] missing")
	err := NotFound(base, WithFields(map[string]any{"course_id": "abc"}))
	wrapped := fmt.Errorf("handler: %w", err)

	body, status, ok := Response(wrapped)
	if !ok {
		t.Fatal("expected a response decoration")
	}
	if status != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, status)
	}

	want := &ErrorResponse{Message: "the resource could not be found", Reason: ReasonNotFound}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Fatalf("unexpected body (-want +got):\n%s", diff)
	}

	wantFields := map[string]any{"course_id": "abc", "reason": ReasonNotFound}
	if diff := cmp.Diff(wantFields, Fields(wrapped)); diff != "" {
		t.Fatalf("unexpected fields (-want +got):\n%s", diff)
	}

	if !errors.Is(wrapped, base) {
		t.Fatal("expected the original error in the chain")
	}
}

func TestOuterDecorationWins(t *testing.T) {
	inner := Annotate(errors.New("capture refused"), map[string]any{"order_id": "O1", "attempt": 1})
	outer := NewError(fmt.Errorf("capturing: %w", inner), ReasonProviderDeclined, "payment was not completed by the provider",
		http.StatusBadRequest, WithFields(map[string]any{"attempt": 2}))

	body, status, ok := Response(outer)
	if !ok || status != http.StatusBadRequest || body.Reason != ReasonProviderDeclined {
		t.Fatalf("unexpected response %d %+v", status, body)
	}

	want := map[string]any{"order_id": "O1", "attempt": 2, "reason": ReasonProviderDeclined}
	if diff := cmp.Diff(want, Fields(outer)); diff != "" {
		t.Fatalf("unexpected fields (-want +got):\n%s", diff)
	}
}

func TestAnnotateChoosesNoResponse(t *testing.T) {
	err := Annotate(errors.New("PANIC [nil map]"), map[string]any{"trace": "..."})

	if _, _, ok := Response(err); ok {
		t.Fatal("annotated errors must be answered generically")
	}
	if Fields(err)["trace"] != "..." {
		t.Fatal("expected the trace field")
	}
}

func TestBadRequestEchoesMessage(t *testing.T) {
	err := BadRequest(errors.New("courseId is a required field"))

	body, status, _ := Response(err)
	if status != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, status)
	}
	if body.Message != "courseId is a required field" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}
