// Package leads stores scouted sales leads. A lead comes out of the
// assist scout flow (photo of a truck or fleet yard) with a drafted
// outreach email, and is kept newest first.
package leads

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"carbcheck/internal/kv"
)

const leadsKey = "leads"

// Lead is one scouted prospect.
type Lead struct {
	ID         string    `json:"id"`
	Company    string    `json:"companyName"`
	Industry   string    `json:"industry"`
	Location   string    `json:"location"`
	Phone      string    `json:"phone"`
	DOT        string    `json:"dot,omitempty"`
	EmailDraft string    `json:"emailDraft"`
	CapturedAt time.Time `json:"capturedAt"`
}

// Store persists scouted leads through a kv.Store.
type Store struct {
	kv  kv.Store
	mu  sync.Mutex
	now func() time.Time
}

func NewStore(store kv.Store) *Store {
	return &Store{kv: store, now: time.Now}
}

// Add assigns the lead an ID and capture time and prepends it to the
// stored list.
func (s *Store) Add(lead Lead) (Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead.ID = uuid.NewString()
	lead.CapturedAt = s.now().UTC()

	existing := s.load()
	all := append([]Lead{lead}, existing...)
	if err := s.save(all); err != nil {
		return Lead{}, err
	}
	return lead, nil
}

// All returns the stored leads, newest first.
func (s *Store) All() []Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// load tolerates a corrupt blob the same way the account store does:
// unreadable data means no leads, not a failure.
func (s *Store) load() []Lead {
	raw, ok := s.kv.Get(leadsKey)
	if !ok {
		return nil
	}
	var all []Lead
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		return nil
	}
	return all
}

func (s *Store) save(all []Lead) error {
	raw, err := json.Marshal(all)
	if err != nil {
		return err
	}
	return s.kv.Set(leadsKey, string(raw))
}

// Projection is one row of the internal revenue outlook table.
type Projection struct {
	Year         int
	Trucks       int
	TestsPerYear int
	TotalTests   int
	Price        int
	Revenue      int
}

// Projections is the fixed 2026 through 2030 outlook shown on the admin
// financials tab.
func Projections() []Projection {
	return []Projection{
		{Year: 2026, Trucks: 2500, TestsPerYear: 2, TotalTests: 5000, Price: 130, Revenue: 650000},
		{Year: 2027, Trucks: 2700, TestsPerYear: 4, TotalTests: 10800, Price: 135, Revenue: 1458000},
		{Year: 2028, Trucks: 2916, TestsPerYear: 4, TotalTests: 11664, Price: 140, Revenue: 1632960},
		{Year: 2029, Trucks: 3150, TestsPerYear: 4, TotalTests: 12600, Price: 145, Revenue: 1827000},
		{Year: 2030, Trucks: 3400, TestsPerYear: 4, TotalTests: 13600, Price: 150, Revenue: 2040000},
	}
}
