package graph

import (
	"sort"
	"testing"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messageboard/internal/models"
	"messageboard/internal/ratelimit"
	"messageboard/internal/service"
)

// memStore is an in-memory stand-in for the Postgres repository.
type memStore struct {
	users    []models.User
	messages []models.Message
}

func (s *memStore) CreateUser(user models.User) error {
	s.users = append(s.users, user)
	return nil
}
func (s *memStore) GetUserByID(id string) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}
func (s *memStore) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}
func (s *memStore) ListUsers() ([]models.User, error) {
	return s.users, nil
}
func (s *memStore) CreateMessage(msg models.Message) error {
	s.messages = append(s.messages, msg)
	return nil
}
func (s *memStore) ListMessages() ([]models.Message, error) {
	out := append([]models.Message(nil), s.messages...)
	sortByCreation(out)
	return out, nil
}
func (s *memStore) ListMessagesByUser(userID string) ([]models.Message, error) {
	var out []models.Message
	for _, m := range s.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sortByCreation(out)
	return out, nil
}
func (s *memStore) CountMessagesByUser(userID string) (int, error) {
	count := 0
	for _, m := range s.messages {
		if m.UserID == userID {
			count++
		}
	}
	return count, nil
}
func (s *memStore) PreviousMessage(msg models.Message) (*models.Message, error) {
	siblings, _ := s.ListMessagesByUser(msg.UserID)
	for i, m := range siblings {
		if m.ID == msg.ID && i > 0 {
			found := siblings[i-1]
			return &found, nil
		}
	}
	return nil, nil
}
func (s *memStore) NextMessage(msg models.Message) (*models.Message, error) {
	siblings, _ := s.ListMessagesByUser(msg.UserID)
	for i, m := range siblings {
		if m.ID == msg.ID && i < len(siblings)-1 {
			found := siblings[i+1]
			return &found, nil
		}
	}
	return nil, nil
}

func sortByCreation(msgs []models.Message) {
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].CreationDate != msgs[j].CreationDate {
			return msgs[i].CreationDate < msgs[j].CreationDate
		}
		return msgs[i].ID < msgs[j].ID
	})
}

func newTestSchema(t *testing.T) graphql.Schema {
	t.Helper()
	store := &memStore{}
	svc := service.NewBoardService(store, store, ratelimit.New(10, time.Hour), nil)
	schema, err := NewSchema(svc)
	require.NoError(t, err)
	return schema
}

func exec(t *testing.T, schema graphql.Schema, query string, vars map[string]interface{}) *graphql.Result {
	t.Helper()
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: vars,
	})
}

const createUserMutation = `
mutation CreateUser($name: String!, $email: String!) {
	createUser(name: $name, email: $email) { id name email creationDate }
}`

const postMessageMutation = `
mutation PostMessage($userId: ID!, $messageBody: String!) {
	postMessage(userId: $userId, messageBody: $messageBody) {
		id body creationDate
		user { name }
	}
}`

func createUser(t *testing.T, schema graphql.Schema, name string, email string) map[string]interface{} {
	t.Helper()
	result := exec(t, schema, createUserMutation, map[string]interface{}{"name": name, "email": email})
	require.Empty(t, result.Errors)
	return result.Data.(map[string]interface{})["createUser"].(map[string]interface{})
}

func postMessage(t *testing.T, schema graphql.Schema, userID string, body string) *graphql.Result {
	t.Helper()
	// Timestamps carry millisecond resolution; space posts out so creation
	// order is unambiguous in the tests.
	time.Sleep(2 * time.Millisecond)
	return exec(t, schema, postMessageMutation, map[string]interface{}{"userId": userID, "messageBody": body})
}

func TestCreateUserMutation(t *testing.T) {
	schema := newTestSchema(t)

	user := createUser(t, schema, "Alice", "alice@example.com")
	assert.NotEmpty(t, user["id"])
	assert.Equal(t, "Alice", user["name"])
	assert.Equal(t, "alice@example.com", user["email"])
	assert.NotEmpty(t, user["creationDate"])
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	schema := newTestSchema(t)
	createUser(t, schema, "Alice", "alice@example.com")

	result := exec(t, schema, createUserMutation, map[string]interface{}{"name": "Imposter", "email": "alice@example.com"})
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "A user with this email already exists.", result.Errors[0].Message)

	users := exec(t, schema, `{ listUsers { id } }`, nil)
	require.Empty(t, users.Errors)
	assert.Len(t, users.Data.(map[string]interface{})["listUsers"], 1)
}

func TestListUsersInCreationOrder(t *testing.T) {
	schema := newTestSchema(t)
	createUser(t, schema, "Alice", "alice@example.com")
	createUser(t, schema, "Bob", "bob@example.com")
	createUser(t, schema, "Carol", "carol@example.com")

	result := exec(t, schema, `{ listUsers { name } }`, nil)
	require.Empty(t, result.Errors)
	list := result.Data.(map[string]interface{})["listUsers"].([]interface{})
	require.Len(t, list, 3)
	for i, name := range []string{"Alice", "Bob", "Carol"} {
		assert.Equal(t, name, list[i].(map[string]interface{})["name"])
	}
}

func TestPostMessageMutation(t *testing.T) {
	schema := newTestSchema(t)
	user := createUser(t, schema, "Alice", "alice@example.com")

	result := postMessage(t, schema, user["id"].(string), "hello board")
	require.Empty(t, result.Errors)
	msg := result.Data.(map[string]interface{})["postMessage"].(map[string]interface{})
	assert.Equal(t, "hello board", msg["body"])
	assert.Equal(t, "Alice", msg["user"].(map[string]interface{})["name"])
}

func TestPostMessageUnknownUser(t *testing.T) {
	schema := newTestSchema(t)

	result := postMessage(t, schema, "no-such-user", "hello")
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "User not found. Cannot post message.", result.Errors[0].Message)

	all := exec(t, schema, `{ listAllMessages { id } }`, nil)
	require.Empty(t, all.Errors)
	assert.Empty(t, all.Data.(map[string]interface{})["listAllMessages"])
}

func TestMessageOrderingLinks(t *testing.T) {
	schema := newTestSchema(t)
	user := createUser(t, schema, "Alice", "alice@example.com")
	userID := user["id"].(string)

	for _, body := range []string{"Message 1", "Message 2", "Message 3"} {
		result := postMessage(t, schema, userID, body)
		require.Empty(t, result.Errors)
	}

	result := exec(t, schema, `
		query($userId: ID!) {
			listMessagesForUser(userId: $userId) {
				body
				previousPostedMessage { body }
				nextPostedMessage { body }
			}
		}`, map[string]interface{}{"userId": userID})
	require.Empty(t, result.Errors)
	list := result.Data.(map[string]interface{})["listMessagesForUser"].([]interface{})
	require.Len(t, list, 3)

	first := list[0].(map[string]interface{})
	middle := list[1].(map[string]interface{})
	last := list[2].(map[string]interface{})

	assert.Nil(t, first["previousPostedMessage"])
	assert.Equal(t, "Message 2", first["nextPostedMessage"].(map[string]interface{})["body"])
	assert.Equal(t, "Message 1", middle["previousPostedMessage"].(map[string]interface{})["body"])
	assert.Equal(t, "Message 3", middle["nextPostedMessage"].(map[string]interface{})["body"])
	assert.Equal(t, "Message 2", last["previousPostedMessage"].(map[string]interface{})["body"])
	assert.Nil(t, last["nextPostedMessage"])
}

func TestListMessagesForUnknownUser(t *testing.T) {
	schema := newTestSchema(t)

	result := exec(t, schema, `
		query($userId: ID!) {
			listMessagesForUser(userId: $userId) { id }
		}`, map[string]interface{}{"userId": "ghost"})
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "User not found.", result.Errors[0].Message)
}

func TestRateLimitAfterTenPosts(t *testing.T) {
	schema := newTestSchema(t)
	user := createUser(t, schema, "Bob", "bob@example.com")
	userID := user["id"].(string)

	for i := 0; i < 10; i++ {
		result := postMessage(t, schema, userID, "spam")
		require.Empty(t, result.Errors, "post %d should be allowed", i+1)
	}

	result := postMessage(t, schema, userID, "one too many")
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "Rate limit exceeded. You can post a maximum of 10 messages per hour.", result.Errors[0].Message)

	list := exec(t, schema, `
		query($userId: ID!) {
			listMessagesForUser(userId: $userId) { body }
		}`, map[string]interface{}{"userId": userID})
	require.Empty(t, list.Errors)
	assert.Len(t, list.Data.(map[string]interface{})["listMessagesForUser"], 10,
		"the rejected post must not appear")
}

func TestNumberOfPosts(t *testing.T) {
	schema := newTestSchema(t)
	alice := createUser(t, schema, "Alice", "alice@example.com")
	bob := createUser(t, schema, "Bob", "bob@example.com")

	for i := 0; i < 3; i++ {
		result := postMessage(t, schema, alice["id"].(string), "hi")
		require.Empty(t, result.Errors)
	}
	result := postMessage(t, schema, bob["id"].(string), "yo")
	require.Empty(t, result.Errors)

	users := exec(t, schema, `{ listUsers { name numberOfPosts } }`, nil)
	require.Empty(t, users.Errors)
	list := users.Data.(map[string]interface{})["listUsers"].([]interface{})
	require.Len(t, list, 2)
	assert.Equal(t, 3, list[0].(map[string]interface{})["numberOfPosts"])
	assert.Equal(t, 1, list[1].(map[string]interface{})["numberOfPosts"])
}
