package mapping

import (
	"testing"
)

func TestArgumentsSetKeepsOrderAndUniqueness(t *testing.T) {
	var args Arguments
	args.Set("level", "50")
	args.Set("ramp", "4s")
	args.Set("level", "75") // replaces in place, order unchanged

	if len(args) != 2 {
		t.Fatalf("len(args) = %d, want 2", len(args))
	}
	if args[0] != (Argument{"level", "75"}) || args[1] != (Argument{"ramp", "4s"}) {
		t.Errorf("args = %v", args)
	}
	if got, ok := args.Get("ramp"); !ok || got != "4s" {
		t.Errorf("Get(ramp) = %q, %v", got, ok)
	}
	if _, ok := args.Get("missing"); ok {
		t.Errorf("Get(missing) reported present")
	}
}

func TestMessageCopyIsIndependent(t *testing.T) {
	original := &Message{
		Kind:      Command,
		Function:  "Security",
		Action:    "GATE_OPEN",
		Arguments: Arguments{{"delay", "5"}},
	}
	dup := original.Copy()
	dup.Action = "GATE_CLOSE"
	dup.Arguments.Set("delay", "10")

	if original.Action != "GATE_OPEN" {
		t.Errorf("original action mutated: %q", original.Action)
	}
	if got, _ := original.Arguments.Get("delay"); got != "5" {
		t.Errorf("original arguments mutated: %v", original.Arguments)
	}
}

func TestMessageReply(t *testing.T) {
	msg := &Message{
		Kind:     Command,
		Function: "Security",
		Device:   "gate",
		Action:   "GATE_OPEN",
	}
	reply := msg.Reply("error", "device unreachable")

	if reply.Kind != Status {
		t.Errorf("Kind = %q, want status", reply.Kind)
	}
	if got, _ := reply.Arguments.Get("response"); got != "error" {
		t.Errorf("response = %q", got)
	}
	if got, _ := reply.Arguments.Get("reason"); got != "device unreachable" {
		t.Errorf("reason = %q", got)
	}
	if reply.Function != "Security" || reply.Device != "gate" {
		t.Errorf("addressing fields changed: %s", reply)
	}
}

func TestMessageEqual(t *testing.T) {
	a := &Message{Kind: Command, Action: "dim", Arguments: Arguments{{"level", "50"}}}
	b := a.Copy()
	if !a.Equal(b) {
		t.Errorf("Equal() = false for identical messages")
	}

	b.Arguments = Arguments{{"level", "51"}}
	if a.Equal(b) {
		t.Errorf("Equal() = true for differing arguments")
	}

	c := a.Copy()
	c.Kind = Status
	if a.Equal(c) {
		t.Errorf("Equal() = true for differing kind")
	}
}

func TestMessageString(t *testing.T) {
	msg := &Message{Kind: Command, Function: "Security", Action: "GATE_OPEN",
		Arguments: Arguments{{"delay", "5"}}}
	got := msg.String()
	want := "kind=command;function=Security;gateway=;location=;device=;sender=;action=GATE_OPEN;delay=5"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
