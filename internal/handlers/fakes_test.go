package handlers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/votesecure/platform/internal/store"
	"github.com/votesecure/platform/types"
)

// In-memory repositories backing the handler tests. They mirror the postgres
// layer's contract: store.ErrNotFound for missing rows and store.ErrDuplicate
// for uniqueness violations.

type memUserRepo struct {
	mu     sync.Mutex
	users  map[int]types.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[int]types.User{}, nextID: 1}
}

func (r *memUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *memUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return types.User{}, store.ErrDuplicate
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.VoterID = fmt.Sprintf("V%05d", user.ID)
	user.RegistrationDate = time.Now()
	r.users[user.ID] = user
	return user, nil
}

func (r *memUserRepo) Update(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = user
	return user, nil
}

func (r *memUserRepo) ListByStatus(ctx context.Context, status string, offset, limit int) ([]types.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []types.User
	for _, user := range r.users {
		if user.Role == types.RoleUser && user.Status == status {
			matched = append(matched, user)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *memUserRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, user := range r.users {
		if user.Role == types.RoleUser && user.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *memUserRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type memElectionRepo struct {
	mu              sync.Mutex
	elections       map[int]types.Election
	nextID          int
	nextCandidateID int
}

func newMemElectionRepo() *memElectionRepo {
	return &memElectionRepo{elections: map[int]types.Election{}, nextID: 1, nextCandidateID: 1}
}

func (r *memElectionRepo) List(ctx context.Context, offset, limit int) ([]types.Election, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []types.Election
	for _, election := range r.elections {
		all = append(all, election)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *memElectionRepo) Get(ctx context.Context, id int) (types.Election, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	election, ok := r.elections[id]
	if !ok {
		return types.Election{}, store.ErrNotFound
	}
	return election, nil
}

func (r *memElectionRepo) Create(ctx context.Context, election types.Election) (types.Election, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	election.ID = r.nextID
	r.nextID++
	election.CreatedAt = time.Now()
	election.UpdatedAt = election.CreatedAt
	for i := range election.Candidates {
		election.Candidates[i].ID = r.nextCandidateID
		election.Candidates[i].ElectionID = election.ID
		r.nextCandidateID++
	}
	r.elections[election.ID] = election
	return election, nil
}

func (r *memElectionRepo) Update(ctx context.Context, election types.Election) (types.Election, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.elections[election.ID]
	if !ok {
		return types.Election{}, store.ErrNotFound
	}
	election.CreatedAt = existing.CreatedAt
	election.UpdatedAt = time.Now()
	if election.Candidates == nil {
		election.Candidates = existing.Candidates
	} else {
		for i := range election.Candidates {
			if election.Candidates[i].ID == 0 {
				election.Candidates[i].ID = r.nextCandidateID
				r.nextCandidateID++
			}
			election.Candidates[i].ElectionID = election.ID
		}
	}
	r.elections[election.ID] = election
	return election, nil
}

func (r *memElectionRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.elections[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.elections, id)
	return nil
}

func (r *memElectionRepo) GetCandidate(ctx context.Context, electionID, candidateID int) (types.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	election, ok := r.elections[electionID]
	if !ok {
		return types.Candidate{}, store.ErrNotFound
	}
	for _, candidate := range election.Candidates {
		if candidate.ID == candidateID {
			return candidate, nil
		}
	}
	return types.Candidate{}, store.ErrNotFound
}

type memVoteRepo struct {
	mu     sync.Mutex
	votes  []types.Vote
	nextID int
}

func newMemVoteRepo() *memVoteRepo {
	return &memVoteRepo{nextID: 1}
}

func (r *memVoteRepo) Create(ctx context.Context, vote types.Vote) (types.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.votes {
		if existing.ElectionID == vote.ElectionID && existing.UserID == vote.UserID {
			return types.Vote{}, store.ErrDuplicate
		}
	}
	vote.ID = r.nextID
	r.nextID++
	vote.CastAt = time.Now()
	r.votes = append(r.votes, vote)
	return vote, nil
}

func (r *memVoteRepo) HasVoted(ctx context.Context, electionID, userID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, vote := range r.votes {
		if vote.ElectionID == electionID && vote.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memVoteRepo) CountByElection(ctx context.Context, electionID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, vote := range r.votes {
		if vote.ElectionID == electionID {
			count++
		}
	}
	return count, nil
}

func (r *memVoteRepo) DistinctVoters(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	voters := map[int]bool{}
	for _, vote := range r.votes {
		voters[vote.UserID] = true
	}
	return len(voters), nil
}

func (r *memVoteRepo) ElectionsVotedBy(ctx context.Context, userID int) (map[int]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	voted := map[int]bool{}
	for _, vote := range r.votes {
		if vote.UserID == userID {
			voted[vote.ElectionID] = true
		}
	}
	return voted, nil
}

// memPublisher records published events.
type memPublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
}

type publishedMessage struct {
	Channel string
	Data    []byte
	Attrs   map[string]string
}

func (p *memPublisher) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, publishedMessage{Channel: channel, Data: data, Attrs: attrs})
	return fmt.Sprintf("msg-%d", len(p.messages)), nil
}

func (p *memPublisher) published(channel string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := 0
	for _, message := range p.messages {
		if message.Channel == channel {
			count++
		}
	}
	return count
}
