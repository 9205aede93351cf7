package donation

import (
	"sync"

	"github.com/google/uuid"

	"youbuidl/internal/chain"
	"youbuidl/internal/infra"
	"youbuidl/internal/wallet"
)

// Dialogs owns the live dialog sessions, keyed by id. Sessions are held in
// memory only: an intent has no life outside its dialog.
type Dialogs struct {
	registry *chain.Registry
	executor *Executor
	recorder *Recorder
	session  wallet.Session
	logger   infra.Logger

	mu   sync.Mutex
	byID map[string]*Dialog
}

func NewDialogs(registry *chain.Registry, executor *Executor, recorder *Recorder, session wallet.Session, logger infra.Logger) *Dialogs {
	return &Dialogs{
		registry: registry,
		executor: executor,
		recorder: recorder,
		session:  session,
		logger:   logger,
		byID:     make(map[string]*Dialog),
	}
}

// Open starts a dialog for a post with the default selection: the first
// chain in the registry, its native token, empty amount. The recipient is
// the post author's wallet address, resolved by the caller.
func (m *Dialogs) Open(postID, donorDID, recipient string) *Dialog {
	defaults := Intent{
		TokenSymbol: NativeToken,
		Recipient:   recipient,
	}
	if chains := m.registry.Chains(); len(chains) > 0 {
		defaults.ChainID = chains[0].ID
	}

	d := newDialog(uuid.NewString(), postID, donorDID, defaults, m.executor, m.recorder, m.session, m.logger)

	m.mu.Lock()
	m.byID[d.id] = d
	m.mu.Unlock()
	return d
}

// Get looks up a live dialog by id.
func (m *Dialogs) Get(id string) (*Dialog, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[id]
	return d, ok
}

// Remove drops a dialog from the live set. Callers evict after cancel or
// after reading a terminal state; there is no idle sweep because a wallet
// interaction may legitimately stay pending for a long time.
func (m *Dialogs) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}
