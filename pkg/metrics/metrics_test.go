package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHelpersBeforeInit(t *testing.T) {
	if RoomsCreated != nil {
		t.Skip("metrics already initialized by another test")
	}

	// must not panic
	RoomCreated()
	RoomDeleted("empty")
	StoreFailure("channel", "load")
	ObserveStore("file", "save", time.Now())
	CommandExecuted("ping")
}

func TestRoomMetrics(t *testing.T) {
	Init()
	Init()

	created := testutil.ToFloat64(RoomsCreated)
	active := testutil.ToFloat64(RoomsActive)
	empty := testutil.ToFloat64(RoomsDeleted.WithLabelValues("empty"))

	RoomCreated()
	RoomCreated()
	RoomDeleted("empty")

	if got := testutil.ToFloat64(RoomsCreated) - created; got != 2 {
		t.Errorf("rooms created delta = %v, want %v", got, 2)
	}
	if got := testutil.ToFloat64(RoomsActive) - active; got != 1 {
		t.Errorf("rooms active delta = %v, want %v", got, 1)
	}
	if got := testutil.ToFloat64(RoomsDeleted.WithLabelValues("empty")) - empty; got != 1 {
		t.Errorf("rooms deleted{empty} delta = %v, want %v", got, 1)
	}
}

func TestStoreFailures(t *testing.T) {
	Init()

	before := testutil.ToFloat64(StoreFailures.WithLabelValues("channel", "save"))
	StoreFailure("channel", "save")
	if got := testutil.ToFloat64(StoreFailures.WithLabelValues("channel", "save")) - before; got != 1 {
		t.Errorf("store failures delta = %v, want %v", got, 1)
	}
}
