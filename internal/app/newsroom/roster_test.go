package newsroom_test

import (
	"os"
	"path/filepath"
	"testing"

	"newsroom/internal/app/newsroom"
)

func TestDefaultRosterIsValid(t *testing.T) {
	if err := newsroom.DefaultRoster().Validate(); err != nil {
		t.Fatalf("default roster must validate: %v", err)
	}
}

func TestLoadRoster(t *testing.T) {
	yml := `agents:
  - name: Scout
    role: researcher
    template: "Find out about {topic}"
    input_var: topic
    temperature: 0.3
    emits: research
    send_to: Author
  - name: Author
    role: writer
    template: "Write up {research}"
    input_var: research
    temperature: 0.5
    consumes: research
    emits: final
    send_to: Coordinator
`
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("write temp roster: %v", err)
	}

	roster, err := newsroom.LoadRoster(path)
	if err != nil {
		t.Fatalf("LoadRoster failed: %v", err)
	}
	if len(roster.Agents) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(roster.Agents))
	}
	if roster.Agents[0].Name != "Scout" || roster.Agents[0].Consumes != "" {
		t.Fatalf("unexpected producer: %+v", roster.Agents[0])
	}
	if roster.Agents[1].Consumes != "research" {
		t.Fatalf("unexpected processor: %+v", roster.Agents[1])
	}
}

func TestValidateRejectsBadRosters(t *testing.T) {
	base := newsroom.DefaultRoster()

	tooFew := newsroom.Roster{Agents: base.Agents[:1]}
	if err := tooFew.Validate(); err == nil {
		t.Fatalf("expected error for single-agent roster")
	}

	dup := newsroom.DefaultRoster()
	dup.Agents[1].Name = dup.Agents[0].Name
	if err := dup.Validate(); err == nil {
		t.Fatalf("expected error for duplicate names")
	}

	producerConsumes := newsroom.DefaultRoster()
	producerConsumes.Agents[0].Consumes = "data"
	if err := producerConsumes.Validate(); err == nil {
		t.Fatalf("expected error when the producer consumes")
	}

	missingConsume := newsroom.DefaultRoster()
	missingConsume.Agents[2].Consumes = ""
	if err := missingConsume.Validate(); err == nil {
		t.Fatalf("expected error for processor without consumes")
	}
}
