package newsroom

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CoordinatorName is where the last agent mails its result. The pipeline
// never withdraws it — the final text travels back as a return value — but
// the deposit keeps the hand-off visible in the audit log.
const CoordinatorName = "Coordinator"

// AgentSpec describes one agent of the pipeline as data: who it is, what it
// consumes and emits, and the instruction template it generates with. The
// first agent of a roster is the producer and has no Consumes kind.
type AgentSpec struct {
	Name        string  `yaml:"name"`
	Role        string  `yaml:"role"`
	Template    string  `yaml:"template"`
	InputVar    string  `yaml:"input_var"`
	Temperature float32 `yaml:"temperature"`
	Consumes    string  `yaml:"consumes,omitempty"`
	Emits       string  `yaml:"emits"`
	SendTo      string  `yaml:"send_to"`
}

// Roster is the ordered set of agents a pipeline is built from.
type Roster struct {
	Agents []AgentSpec `yaml:"agents"`
}

const researcherTemplate = `You are a technology researcher. Gather objective, current information about the requested topic.

TOPIC: {topic}

Provide:
1. Definition and context of the topic (2 paragraphs)
2. Relevant data and statistics (3-5 points)
3. Current practical applications
4. Recent trends and developments
5. Notable companies or projects

Be objective, concise and precise. Focus on verifiable facts.`

const writerTemplate = `You are a technical writer. Write a clear, objective blog article based on the data provided.

RESEARCH DATA:
{research}

STRUCTURE:
1. Descriptive title
2. Introduction (2 paragraphs): what it is and why it matters
3. Section 1: Fundamentals and context
4. Section 2: Applications and use cases
5. Section 3: Current state and trends
6. Conclusion: summary and outlook

STYLE:
- Professional, informative tone
- Short, direct paragraphs
- Focus on facts and data
- Avoid promotional or speculative language
- 700-900 words

Produce the complete article draft.`

const editorTemplate = `You are a professional editor. Review and improve the draft to produce the final version.

DRAFT:
{draft}

TASKS:
1. Fix spelling and grammar
2. Improve clarity and coherence
3. Check structure and flow
4. Polish titles and subtitles
5. Keep a consistent professional tone

IMPORTANT: Output ONLY the corrected, improved final article, with no extra commentary.
No notes, change summaries or suggestions. Just the article, ready to publish.`

// DefaultRoster is the built-in three-agent newsroom:
// Researcher -> Writer -> Editor -> Coordinator.
func DefaultRoster() Roster {
	return Roster{
		Agents: []AgentSpec{
			{
				Name:        "Researcher",
				Role:        "information gathering expert",
				Template:    researcherTemplate,
				InputVar:    "topic",
				Temperature: 0.3,
				Emits:       "research",
				SendTo:      "Writer",
			},
			{
				Name:        "Writer",
				Role:        "technical writing expert",
				Template:    writerTemplate,
				InputVar:    "research",
				Temperature: 0.4,
				Consumes:    "research",
				Emits:       "draft",
				SendTo:      "Editor",
			},
			{
				Name:        "Editor",
				Role:        "review and editing expert",
				Template:    editorTemplate,
				InputVar:    "draft",
				Temperature: 0.2,
				Consumes:    "draft",
				Emits:       "final",
				SendTo:      CoordinatorName,
			},
		},
	}
}

// LoadRoster reads an agent roster from a YAML file.
func LoadRoster(path string) (Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Roster{}, fmt.Errorf("read roster file: %w", err)
	}

	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Roster{}, fmt.Errorf("parse roster file: %w", err)
	}

	if err := r.Validate(); err != nil {
		return Roster{}, fmt.Errorf("roster %s: %w", path, err)
	}
	return r, nil
}

// Validate checks the roster is a runnable pipeline: at least a producer
// and one processor, unique names, and a consumes kind on every processor.
func (r Roster) Validate() error {
	if len(r.Agents) < 2 {
		return fmt.Errorf("need at least 2 agents, got %d", len(r.Agents))
	}

	seen := make(map[string]bool, len(r.Agents))
	for i, a := range r.Agents {
		if a.Name == "" {
			return fmt.Errorf("agent %d: name is required", i)
		}
		if seen[a.Name] {
			return fmt.Errorf("duplicate agent name %q", a.Name)
		}
		seen[a.Name] = true

		if a.Template == "" {
			return fmt.Errorf("agent %s: template is required", a.Name)
		}
		if a.InputVar == "" {
			return fmt.Errorf("agent %s: input_var is required", a.Name)
		}
		if a.Emits == "" {
			return fmt.Errorf("agent %s: emits is required", a.Name)
		}
		if a.SendTo == "" {
			return fmt.Errorf("agent %s: send_to is required", a.Name)
		}

		if i == 0 && a.Consumes != "" {
			return fmt.Errorf("agent %s: the first agent is the producer and must not consume", a.Name)
		}
		if i > 0 && a.Consumes == "" {
			return fmt.Errorf("agent %s: consumes is required", a.Name)
		}
	}

	return nil
}
