package dummy

import (
	"testing"
	"time"

	"github.com/seftonlabs/mqttgateway/internal/gateway"
	"github.com/seftonlabs/mqttgateway/internal/mapping"
)

func initInterface(t *testing.T, params map[string]string) (*Interface, *gateway.Queue, *gateway.Queue) {
	t.Helper()
	i := New(nil)
	inbox := gateway.NewQueue(8)
	outbox := gateway.NewQueue(8)
	if err := i.Init(params, inbox, outbox); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return i, inbox, outbox
}

func TestInitDefaults(t *testing.T) {
	i, _, _ := initInterface(t, nil)
	if i.period != 30*time.Second {
		t.Errorf("period = %v, want 30s", i.period)
	}
	if i.function != "DummyFunction" || i.location != "Office" || i.action != "MUTE_ON" {
		t.Errorf("defaults = %q/%q/%q", i.function, i.location, i.action)
	}
}

func TestInitParams(t *testing.T) {
	i, _, _ := initInterface(t, map[string]string{
		"period":   "5",
		"function": "Audio",
		"location": "Kitchen",
		"action":   "MUTE_OFF",
	})
	if i.period != 5*time.Second {
		t.Errorf("period = %v, want 5s", i.period)
	}
	if i.function != "Audio" || i.location != "Kitchen" || i.action != "MUTE_OFF" {
		t.Errorf("params = %q/%q/%q", i.function, i.location, i.action)
	}
}

func TestInitRejectsBadPeriod(t *testing.T) {
	i := New(nil)
	err := i.Init(map[string]string{"period": "soon"}, gateway.NewQueue(1), gateway.NewQueue(1))
	if err == nil {
		t.Error("Init() expected error for non-numeric period")
	}
}

func TestLoopDrainsInbox(t *testing.T) {
	i, inbox, _ := initInterface(t, map[string]string{"period": "0"})
	inbox.Push(&mapping.Message{Kind: mapping.Command, Action: "gate_open"})
	inbox.Push(&mapping.Message{Kind: mapping.Status, Action: "alive"})

	i.Loop()

	if inbox.Len() != 0 {
		t.Errorf("inbox length after Loop = %d, want 0", inbox.Len())
	}
}

func TestLoopQueuesTestCommandAfterPeriod(t *testing.T) {
	i, _, outbox := initInterface(t, map[string]string{"period": "1"})
	i.last = time.Now().Add(-2 * time.Second)

	i.Loop()

	msg := outbox.Pull()
	if msg == nil {
		t.Fatal("outbox empty, want test command")
	}
	if msg.Kind != mapping.Command || msg.Function != "DummyFunction" || msg.Action != "MUTE_ON" {
		t.Errorf("test command = %s", msg)
	}
	if outbox.Pull() != nil {
		t.Error("more than one test command queued")
	}
}

func TestLoopDisabledPeriodNeverQueues(t *testing.T) {
	i, _, outbox := initInterface(t, map[string]string{"period": "0"})
	i.last = time.Now().Add(-time.Hour)

	i.Loop()

	if outbox.Len() != 0 {
		t.Errorf("outbox length = %d, want 0", outbox.Len())
	}
}
