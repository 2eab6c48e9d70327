package agent

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"makdo/internal/conversation"
)

// Agent is a handle on one sub-agent (analyzer, fixer, reporter) and its
// owned conversation log. The LLM side of a sub-agent lives in the external
// agent framework; this handle only carries the state makdo is responsible
// for.
type Agent struct {
	// Name is the stable identifier used for injection targeting.
	Name string

	// ID distinguishes agent instances across restarts.
	ID string

	// Log is the agent's conversation history. All mutation goes through
	// the log's own API.
	Log *conversation.Log
}

// New creates an agent handle with an empty conversation log.
func New(name string) *Agent {
	return &Agent{
		Name: name,
		ID:   uuid.NewString(),
		Log:  conversation.New(),
	}
}

// Pool is the set of sub-agents known to the driver, keyed by name.
type Pool struct {
	mu     sync.RWMutex
	agents map[string]*Agent
}

// NewPool creates a pool containing an agent for each given name.
func NewPool(names ...string) *Pool {
	p := &Pool{agents: make(map[string]*Agent)}
	for _, name := range names {
		p.agents[name] = New(name)
	}
	return p
}

// Get returns the agent with the given name, or nil.
func (p *Pool) Get(name string) *Agent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.agents[name]
}

// Add registers an agent, replacing any existing agent of the same name.
func (p *Pool) Add(a *Agent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.agents[a.Name] = a
}

// Names returns the sorted names of all registered agents.
func (p *Pool) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.agents))
	for name := range p.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
