package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRequestDataRoundTrip(t *testing.T) {
	if GetRequestData(context.Background()) != nil {
		t.Fatalf("expected nil request data")
	}
	id := uuid.New()
	ctx := WithRequestData(context.Background(), &RequestData{UserID: id, Role: "admin"})
	rd := GetRequestData(ctx)
	if rd == nil || rd.UserID != id || rd.Role != "admin" {
		t.Fatalf("unexpected request data: %+v", rd)
	}
}

func TestRequestID(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t", RequestID: "r"})
	if got := RequestID(ctx); got != "r" {
		t.Fatalf("RequestID = %q", got)
	}
	if got := RequestID(context.Background()); got != "" {
		t.Fatalf("RequestID = %q", got)
	}
}
