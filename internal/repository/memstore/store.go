// Package memstore keeps every repository in process memory. It honours the
// same unique constraints and cascades as the postgres schema and is used by
// service and handler tests.
package memstore

import (
	"sort"
	"sync"
	"time"

	"github.com/justsurfingit/jobx/internal/models"
)

type Store struct {
	mu  sync.Mutex
	seq uint
	now func() time.Time

	users         map[uint]models.User
	companies     map[uint]models.Company
	postings      map[uint]models.Posting
	applications  map[uint]models.Application
	messages      map[uint]models.Message
	cvs           map[uint]models.CV
	notifications map[uint]models.Notification
}

func New() *Store {
	return &Store{
		now:           time.Now,
		users:         make(map[uint]models.User),
		companies:     make(map[uint]models.Company),
		postings:      make(map[uint]models.Posting),
		applications:  make(map[uint]models.Application),
		messages:      make(map[uint]models.Message),
		cvs:           make(map[uint]models.CV),
		notifications: make(map[uint]models.Notification),
	}
}

// SetClock replaces the timestamp source used for created_at columns.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func (s *Store) Users() *UserRepository                 { return &UserRepository{s} }
func (s *Store) Companies() *CompanyRepository          { return &CompanyRepository{s} }
func (s *Store) Postings() *PostingRepository           { return &PostingRepository{s} }
func (s *Store) Applications() *ApplicationRepository   { return &ApplicationRepository{s} }
func (s *Store) Messages() *MessageRepository           { return &MessageRepository{s} }
func (s *Store) CVs() *CVRepository                     { return &CVRepository{s} }
func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{s} }

func (s *Store) nextID() uint {
	s.seq++
	return s.seq
}

func (s *Store) deletePostingsLocked(ids []uint) {
	drop := make(map[uint]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
		delete(s.postings, id)
	}
	for id, m := range s.messages {
		if drop[m.PostingID] {
			delete(s.messages, id)
		}
	}
	for id, a := range s.applications {
		if drop[a.PostingID] {
			delete(s.applications, id)
		}
	}
}

func (s *Store) deleteCompanyLocked(companyID uint) {
	var ids []uint
	for id, p := range s.postings {
		if p.CompanyID == companyID {
			ids = append(ids, id)
		}
	}
	s.deletePostingsLocked(ids)
	delete(s.companies, companyID)
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
