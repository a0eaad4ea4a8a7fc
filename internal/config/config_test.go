package config

import "testing"

func TestDefaultHasNoTupleSizesRecorded(t *testing.T) {
	o := Default()
	if o.UsesTuple(2) {
		t.Fatalf("expected a fresh Default() to record no tuple sizes")
	}
}

func TestRecordTupleIsIdempotentAndQueryable(t *testing.T) {
	o := Default()
	o.RecordTuple(3)
	o.RecordTuple(3)
	if !o.UsesTuple(3) {
		t.Fatalf("expected arity 3 to be recorded after RecordTuple")
	}
	if o.UsesTuple(4) {
		t.Fatalf("expected arity 4 to remain unrecorded")
	}
}

func TestRecordTupleOnZeroValueOptions(t *testing.T) {
	var o Options
	o.RecordTuple(2)
	if !o.UsesTuple(2) {
		t.Fatalf("expected RecordTuple to initialize a nil TupleSizesUsed map")
	}
}
