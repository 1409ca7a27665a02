package rpc

import (
	"testing"

	"google.golang.org/grpc/encoding"
)

func TestJSONCodecRoundTripsEnvelope(t *testing.T) {
	c := encoding.GetCodec(jsonCodecName)
	if c == nil {
		t.Fatal("expected json codec to be registered")
	}

	want := Envelope{
		Kind:  KindHello,
		Hello: &Hello{PluginName: "obs-helper", Passphrase: "s3cret"},
	}
	data, err := c.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Envelope
	if err := c.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Kind != KindHello || got.Hello == nil || got.Hello.PluginName != "obs-helper" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestJSONCodecOmitsUnsetVariants(t *testing.T) {
	c := encoding.GetCodec(jsonCodecName)
	data, err := c.Marshal(Envelope{Kind: KindRequestStatus, RequestStatus: &RequestStatus{}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty payload")
	}

	var got Envelope
	if err := c.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Hello != nil || got.SendChat != nil {
		t.Fatalf("expected unset variants to stay nil, got %+v", got)
	}
}
