package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	db_models "weatherchat-backend/internal/models"
	"weatherchat-backend/internal/store"
)

// mockStore is an in-memory store.Store used by the service tests. It
// mirrors the Postgres semantics the services rely on: ErrNotFound for
// absent rows, ErrDuplicate for username collisions, and the conversation
// updated_at bump inside CreateMessage.
type mockStore struct {
	users         map[uuid.UUID]*db_models.User
	documents     map[uuid.UUID]*db_models.Document
	chunks        map[uuid.UUID]*db_models.Chunk
	conversations map[uuid.UUID]*db_models.Conversation
	messages      map[uuid.UUID]*db_models.Message
	feedback      map[uuid.UUID]*db_models.Feedback
	weather       map[uuid.UUID]*db_models.WeatherRecord
	apiLogs       []store.CreateAPILogParams
}

var _ store.Store = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{
		users:         make(map[uuid.UUID]*db_models.User),
		documents:     make(map[uuid.UUID]*db_models.Document),
		chunks:        make(map[uuid.UUID]*db_models.Chunk),
		conversations: make(map[uuid.UUID]*db_models.Conversation),
		messages:      make(map[uuid.UUID]*db_models.Message),
		feedback:      make(map[uuid.UUID]*db_models.Feedback),
		weather:       make(map[uuid.UUID]*db_models.WeatherRecord),
	}
}

// --- User operations ---

func (m *mockStore) CreateUser(_ context.Context, user *db_models.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return store.ErrDuplicate
		}
	}
	cp := *user
	if cp.Role == "" {
		cp.Role = db_models.RoleUser
	}
	cp.CreatedAt = time.Now()
	cp.IsActive = true
	m.users[cp.ID] = &cp
	user.CreatedAt = cp.CreatedAt
	user.IsActive = cp.IsActive
	user.Role = cp.Role
	return nil
}

func (m *mockStore) GetUserByUsername(_ context.Context, username string) (*db_models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) GetUserByID(_ context.Context, id uuid.UUID) (*db_models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockStore) UpdateUserLastLogin(_ context.Context, id uuid.UUID) error {
	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	return nil
}

// --- Document operations ---

func (m *mockStore) CreateDocument(_ context.Context, arg store.CreateDocumentParams) (*db_models.Document, error) {
	doc := &db_models.Document{
		ID:        arg.ID,
		Title:     arg.Title,
		Content:   arg.Content,
		SourceURL: arg.SourceURL,
		Author:    arg.Author,
		Category:  arg.Category,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	m.documents[doc.ID] = doc
	cp := *doc
	return &cp, nil
}

func (m *mockStore) GetDocumentByID(_ context.Context, id uuid.UUID) (*db_models.Document, error) {
	doc, ok := m.documents[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (m *mockStore) ListDocuments(_ context.Context, limit, offset int) ([]db_models.Document, error) {
	var docs []db_models.Document
	for _, d := range m.documents {
		if d.IsActive {
			docs = append(docs, *d)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.After(docs[j].CreatedAt) })
	if offset >= len(docs) {
		return nil, nil
	}
	docs = docs[offset:]
	if limit < len(docs) {
		docs = docs[:limit]
	}
	return docs, nil
}

func (m *mockStore) UpdateDocument(_ context.Context, arg store.UpdateDocumentParams) (*db_models.Document, error) {
	doc, ok := m.documents[arg.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if arg.Title != nil {
		doc.Title = *arg.Title
	}
	if arg.Content != nil {
		doc.Content = *arg.Content
	}
	if arg.SourceURL != nil {
		doc.SourceURL = arg.SourceURL
	}
	if arg.Author != nil {
		doc.Author = arg.Author
	}
	if arg.Category != nil {
		doc.Category = arg.Category
	}
	if arg.IsActive != nil {
		doc.IsActive = *arg.IsActive
	}
	cp := *doc
	return &cp, nil
}

func (m *mockStore) DeleteDocument(_ context.Context, id uuid.UUID) error {
	if _, ok := m.documents[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.documents, id)
	return nil
}

// --- Chunk operations ---

func (m *mockStore) CreateChunk(_ context.Context, arg store.CreateChunkParams) (*db_models.Chunk, error) {
	chunk := &db_models.Chunk{
		ID:         arg.ID,
		DocumentID: arg.DocumentID,
		Text:       arg.Text,
		Index:      arg.Index,
		Embedding:  arg.Embedding,
		CreatedAt:  time.Now(),
	}
	m.chunks[chunk.ID] = chunk
	cp := *chunk
	return &cp, nil
}

func (m *mockStore) GetChunkByID(_ context.Context, id uuid.UUID) (*db_models.Chunk, error) {
	chunk, ok := m.chunks[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *chunk
	return &cp, nil
}

func (m *mockStore) ListChunksByDocument(_ context.Context, documentID uuid.UUID) ([]db_models.Chunk, error) {
	var chunks []db_models.Chunk
	for _, c := range m.chunks {
		if c.DocumentID == documentID {
			chunks = append(chunks, *c)
		}
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })
	return chunks, nil
}

func (m *mockStore) UpdateChunkEmbedding(_ context.Context, id uuid.UUID, embedding []float64) error {
	chunk, ok := m.chunks[id]
	if !ok {
		return store.ErrNotFound
	}
	chunk.Embedding = embedding
	return nil
}

// --- Conversation operations ---

func (m *mockStore) CreateConversation(_ context.Context, conv *db_models.Conversation) error {
	now := time.Now()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	cp := *conv
	m.conversations[cp.ID] = &cp
	return nil
}

func (m *mockStore) GetConversationByID(_ context.Context, id uuid.UUID) (*db_models.Conversation, error) {
	conv, ok := m.conversations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *conv
	return &cp, nil
}

func (m *mockStore) ListConversationsByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]db_models.Conversation, error) {
	var convs []db_models.Conversation
	for _, c := range m.conversations {
		if c.UserID == userID {
			convs = append(convs, *c)
		}
	}
	sort.Slice(convs, func(i, j int) bool { return convs[i].UpdatedAt.After(convs[j].UpdatedAt) })
	if offset >= len(convs) {
		return nil, nil
	}
	convs = convs[offset:]
	if limit < len(convs) {
		convs = convs[:limit]
	}
	return convs, nil
}

// --- Message operations ---

func (m *mockStore) CreateMessage(_ context.Context, arg store.CreateMessageParams) (*db_models.Message, error) {
	conv, ok := m.conversations[arg.ConversationID]
	if !ok {
		return nil, store.ErrNotFound
	}
	msg := &db_models.Message{
		ID:               arg.ID,
		ConversationID:   arg.ConversationID,
		UserID:           arg.UserID,
		Content:          arg.Content,
		IsFromUser:       arg.IsFromUser,
		ReferencedChunks: arg.ReferencedChunks,
		Timestamp:        time.Now(),
	}
	m.messages[msg.ID] = msg
	conv.UpdatedAt = msg.Timestamp
	cp := *msg
	return &cp, nil
}

func (m *mockStore) GetMessageByID(_ context.Context, id uuid.UUID) (*db_models.Message, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *msg
	return &cp, nil
}

func (m *mockStore) ListMessagesByConversation(_ context.Context, conversationID uuid.UUID) ([]db_models.Message, error) {
	var msgs []db_models.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			msgs = append(msgs, *msg)
		}
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].Timestamp.Before(msgs[j].Timestamp) })
	return msgs, nil
}

// --- Feedback operations ---

func (m *mockStore) CreateFeedback(_ context.Context, arg store.CreateFeedbackParams) (*db_models.Feedback, error) {
	fb := &db_models.Feedback{
		ID:        arg.ID,
		MessageID: arg.MessageID,
		Rating:    arg.Rating,
		Comment:   arg.Comment,
		CreatedAt: time.Now(),
	}
	m.feedback[fb.ID] = fb
	cp := *fb
	return &cp, nil
}

func (m *mockStore) ListFeedbackByMessage(_ context.Context, messageID uuid.UUID) ([]db_models.Feedback, error) {
	var fbs []db_models.Feedback
	for _, fb := range m.feedback {
		if fb.MessageID == messageID {
			fbs = append(fbs, *fb)
		}
	}
	sort.Slice(fbs, func(i, j int) bool { return fbs[i].CreatedAt.Before(fbs[j].CreatedAt) })
	return fbs, nil
}

// --- Weather record operations ---

func (m *mockStore) CreateWeather(_ context.Context, arg store.CreateWeatherParams) (*db_models.WeatherRecord, error) {
	rec := &db_models.WeatherRecord{
		ID:            arg.ID,
		Location:      arg.Location,
		Temperature:   arg.Temperature,
		Humidity:      arg.Humidity,
		WindSpeed:     arg.WindSpeed,
		WindDirection: arg.WindDirection,
		Description:   arg.Description,
		ForecastDate:  arg.ForecastDate,
		CreatedAt:     time.Now(),
	}
	m.weather[rec.ID] = rec
	cp := *rec
	return &cp, nil
}

func (m *mockStore) ListWeatherByLocation(_ context.Context, location string) ([]db_models.WeatherRecord, error) {
	var recs []db_models.WeatherRecord
	for _, r := range m.weather {
		if r.Location == location {
			recs = append(recs, *r)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ForecastDate.After(recs[j].ForecastDate) })
	return recs, nil
}

func (m *mockStore) GetLatestWeatherByLocation(_ context.Context, location string) (*db_models.WeatherRecord, error) {
	recs, _ := m.ListWeatherByLocation(context.Background(), location)
	if len(recs) == 0 {
		return nil, store.ErrNotFound
	}
	latest := recs[0]
	for _, r := range recs {
		if r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	return &latest, nil
}

func (m *mockStore) ListWeatherForecast(_ context.Context, location string, days int) ([]db_models.WeatherRecord, error) {
	today := time.Now().Truncate(24 * time.Hour)
	var recs []db_models.WeatherRecord
	for _, r := range m.weather {
		if r.Location == location && !r.ForecastDate.Before(today) {
			recs = append(recs, *r)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ForecastDate.Before(recs[j].ForecastDate) })
	if days < len(recs) {
		recs = recs[:days]
	}
	return recs, nil
}

// --- API call log ---

func (m *mockStore) CreateAPILog(_ context.Context, arg store.CreateAPILogParams) error {
	m.apiLogs = append(m.apiLogs, arg)
	return nil
}
