package conversation

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/internal/reply"
)

func userMsg(text string) domain.Message {
	return reply.UserMessage(text, time.Now())
}

func TestInitAppendsWelcome(t *testing.T) {
	s := Init(domain.RoleLandlord, "3", domain.SessionExtra{UserName: "Dev"}, time.Now())

	history := s.Snapshot()
	require.Len(t, history, 1)
	assert.Equal(t, domain.SenderBot, history[0].Sender)
	assert.Contains(t, history[0].Content, "Hello Dev!")
	assert.Equal(t, reply.RoleDefaults(domain.RoleLandlord), history[0].QuickReplies())

	sc := s.Context()
	assert.Equal(t, domain.RoleLandlord, sc.Role)
	assert.Equal(t, "3", sc.UserID)
	assert.Len(t, sc.History, 1)
}

func TestRecent(t *testing.T) {
	s := New(domain.RoleTenant, "7", domain.SessionExtra{})
	for i := 0; i < 5; i++ {
		s.Append(userMsg(fmt.Sprintf("m%d", i)))
	}

	recent := s.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "m3", recent[0].Content)
	assert.Equal(t, "m4", recent[1].Content)

	assert.Len(t, s.Recent(50), 5)
	assert.Empty(t, s.Recent(0))
	assert.NotNil(t, s.Recent(0))
}

func TestSnapshotsAreNotModifiedByLaterAppends(t *testing.T) {
	s := New(domain.RoleTenant, "7", domain.SessionExtra{})
	s.Append(userMsg("first"))

	before := s.Snapshot()
	sc := s.Context()
	s.Append(userMsg("second"))

	assert.Len(t, before, 1)
	assert.Len(t, sc.History, 1)
	assert.Equal(t, 2, s.Len())
}

func TestClearKeepsIdentity(t *testing.T) {
	s := New(domain.RoleTenant, "7", domain.SessionExtra{PropertyID: "101", UserName: "Asha"})
	s.Append(userMsg("hello"))
	s.UpdateContext(func(c domain.SessionContext) domain.SessionContext {
		c.CurrentTopic = "greeting"
		return c
	})

	s.Clear()

	sc := s.Context()
	assert.Empty(t, sc.History)
	assert.Empty(t, sc.CurrentTopic)
	assert.Equal(t, "101", sc.PropertyID)
	assert.Equal(t, "Asha", sc.UserName)
	assert.Equal(t, domain.RoleTenant, sc.Role)
}

func TestUpdateContextCannotReplaceHistory(t *testing.T) {
	s := New(domain.RoleTenant, "7", domain.SessionExtra{})
	s.Append(userMsg("hello"))

	s.UpdateContext(func(c domain.SessionContext) domain.SessionContext {
		c.History = nil
		c.CurrentTopic = "help"
		return c
	})

	sc := s.Context()
	assert.Len(t, sc.History, 1)
	assert.Equal(t, "help", sc.CurrentTopic)
}

func TestSubscribersSeeUpdatesInOrder(t *testing.T) {
	s := New(domain.RoleTenant, "7", domain.SessionExtra{})

	var got []Update
	unsubscribe := s.Subscribe(func(u Update) { got = append(got, u) })

	s.Append(userMsg("one"))
	s.Append(userMsg("two"))
	s.Clear()
	unsubscribe()
	s.Append(userMsg("ignored"))

	require.Len(t, got, 3)
	assert.Equal(t, UpdateAppended, got[0].Type)
	assert.Equal(t, "one", got[0].Message.Content)
	assert.Len(t, got[1].Snapshot, 2)
	assert.Equal(t, UpdateCleared, got[2].Type)
	assert.Empty(t, got[2].Snapshot)
}

func TestConcurrentAppends(t *testing.T) {
	s := New(domain.RoleTenant, "7", domain.SessionExtra{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Append(userMsg(fmt.Sprintf("m%d", i)))
			_ = s.Recent(3)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}
