package service

import (
	"errors"
	"testing"

	"unimart/internal/domain"
	"unimart/internal/event"
	"unimart/internal/models"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockConnectionStore struct {
	mock.Mock
}

func (m *MockConnectionStore) Create(conn *models.Connection) error {
	args := m.Called(conn)
	if args.Error(0) == nil {
		conn.ID = 1
	}
	return args.Error(0)
}

func (m *MockConnectionStore) GetByID(id uint) (*models.Connection, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Connection), args.Error(1)
}

func (m *MockConnectionStore) GetForSeller(id, sellerID uint) (*models.Connection, error) {
	args := m.Called(id, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Connection), args.Error(1)
}

func (m *MockConnectionStore) UpdateStatus(id uint, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockConnectionStore) DeleteForSeller(id, sellerID uint) error {
	args := m.Called(id, sellerID)
	return args.Error(0)
}

func (m *MockConnectionStore) CreateMessage(msg *models.Message) error {
	args := m.Called(msg)
	if args.Error(0) == nil {
		msg.ID = 10
	}
	return args.Error(0)
}

func (m *MockConnectionStore) HasMessage(connectionID, senderID uint, content string) (bool, error) {
	args := m.Called(connectionID, senderID, content)
	return args.Bool(0), args.Error(1)
}

type MockProductGetter struct {
	mock.Mock
}

func (m *MockProductGetter) GetByID(id uint) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

type MockNotificationWriter struct {
	mock.Mock
}

func (m *MockNotificationWriter) Create(n *models.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

// capturingBus records published events synchronously for assertions.
type capturingBus struct {
	events []event.Event
}

func (b *capturingBus) Publish(e event.Event) {
	b.events = append(b.events, e)
}

func newTestService() (*ConnectionService, *MockConnectionStore, *MockProductGetter, *MockNotificationWriter, *capturingBus) {
	conns := new(MockConnectionStore)
	products := new(MockProductGetter)
	notifs := new(MockNotificationWriter)
	bus := &capturingBus{}
	return NewConnectionService(conns, products, notifs, bus), conns, products, notifs, bus
}

func testProduct() *models.Product {
	return &models.Product{ID: 5, SellerID: 2, Title: "Scientific Calculator"}
}

func TestCreateConnection_Success(t *testing.T) {
	svc, conns, products, notifs, bus := newTestService()
	products.On("GetByID", uint(5)).Return(testProduct(), nil)
	conns.On("Create", mock.AnythingOfType("*models.Connection")).Return(nil)
	conns.On("CreateMessage", mock.AnythingOfType("*models.Message")).Return(nil)
	notifs.On("Create", mock.AnythingOfType("*models.Notification")).Return(nil)

	res, err := svc.CreateConnection(5, 2, 3)
	assert.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Connection sent successfully. Once the seller accepts, you will be notified.", res.Message)
	assert.Equal(t, uint(1), res.ConnectionID)

	created := conns.Calls[0].Arguments.Get(0).(*models.Connection)
	assert.Equal(t, domain.ConnectionStatusPending, created.Status)
	assert.Equal(t, uint(3), created.RequesterID)
	assert.Equal(t, uint(2), created.SellerID)

	msg := conns.Calls[1].Arguments.Get(0).(*models.Message)
	assert.Equal(t, `Hi! I'm interested in buying your product: "Scientific Calculator".`, msg.Content)
	assert.Equal(t, uint(3), msg.SenderID)

	notif := notifs.Calls[0].Arguments.Get(0).(*models.Notification)
	assert.Equal(t, domain.NotifTypeNewMessage, notif.Type)
	assert.Equal(t, uint(2), notif.ReceiverID)
	assert.NotNil(t, notif.MessageID)

	assert.Len(t, bus.events, 1)
	assert.Equal(t, event.TypeConnectionRequested, bus.events[0].Type)
	assert.Equal(t, uint(2), bus.events[0].ReceiverID)
}

func TestCreateConnection_SelfConnection(t *testing.T) {
	svc, conns, products, _, bus := newTestService()

	res, err := svc.CreateConnection(5, 2, 2)
	assert.ErrorIs(t, err, ErrSelfConnection)
	assert.Nil(t, res)
	assert.Empty(t, bus.events)
	products.AssertNotCalled(t, "GetByID", mock.Anything)
	conns.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateConnection_ProductNotFound(t *testing.T) {
	svc, _, products, _, _ := newTestService()
	products.On("GetByID", uint(9)).Return(nil, gorm.ErrRecordNotFound)

	res, err := svc.CreateConnection(9, 2, 3)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, res)
}

func TestCreateConnection_DuplicateIsSuccess(t *testing.T) {
	for name, dupErr := range map[string]error{
		"gorm sentinel": gorm.ErrDuplicatedKey,
		"mysql 1062":    &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"},
	} {
		t.Run(name, func(t *testing.T) {
			svc, conns, products, notifs, bus := newTestService()
			products.On("GetByID", uint(5)).Return(testProduct(), nil)
			conns.On("Create", mock.AnythingOfType("*models.Connection")).Return(dupErr)

			res, err := svc.CreateConnection(5, 2, 3)
			assert.NoError(t, err)
			assert.True(t, res.Success)
			assert.Equal(t, "Request already sent.", res.Message)
			conns.AssertNotCalled(t, "CreateMessage", mock.Anything)
			notifs.AssertNotCalled(t, "Create", mock.Anything)
			assert.Empty(t, bus.events)
		})
	}
}

func TestCreateConnection_SoftenedMessages(t *testing.T) {
	dbErr := errors.New("db down")
	tests := []struct {
		name     string
		msgErr   error
		notifErr error
		want     string
	}{
		{
			name:   "message failed",
			msgErr: dbErr,
			want:   "Connection sent, but your initial message could not be delivered. Please try sending a message again.",
		},
		{
			name:     "notification failed",
			notifErr: dbErr,
			want:     "Connection sent successfully. Once the seller accepts, you will be notified. (Notification delivery issue.)",
		},
		{
			name:     "both failed",
			msgErr:   dbErr,
			notifErr: dbErr,
			want:     "Connection sent, but there was a problem delivering your message and notification. Please check your chat or try again.",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, conns, products, notifs, bus := newTestService()
			products.On("GetByID", uint(5)).Return(testProduct(), nil)
			conns.On("Create", mock.AnythingOfType("*models.Connection")).Return(nil)
			conns.On("CreateMessage", mock.AnythingOfType("*models.Message")).Return(tc.msgErr)
			notifs.On("Create", mock.AnythingOfType("*models.Notification")).Return(tc.notifErr)

			res, err := svc.CreateConnection(5, 2, 3)
			assert.NoError(t, err)
			assert.True(t, res.Success)
			assert.Equal(t, tc.want, res.Message)

			notif := notifs.Calls[0].Arguments.Get(0).(*models.Notification)
			if tc.msgErr != nil {
				assert.Nil(t, notif.MessageID)
			} else {
				assert.NotNil(t, notif.MessageID)
			}
			// The connection exists, so the event still goes out.
			assert.Len(t, bus.events, 1)
		})
	}
}

func TestAcceptConnection_Success(t *testing.T) {
	svc, conns, _, notifs, bus := newTestService()
	conn := &models.Connection{
		ID: 7, ProductID: 5, RequesterID: 3, SellerID: 2,
		Status:  domain.ConnectionStatusPending,
		Product: *testProduct(),
	}
	courtesy := domain.CourtesyMessage("Scientific Calculator")
	conns.On("GetForSeller", uint(7), uint(2)).Return(conn, nil)
	conns.On("UpdateStatus", uint(7), domain.ConnectionStatusAccepted).Return(nil)
	conns.On("HasMessage", uint(7), uint(3), courtesy).Return(false, nil)
	conns.On("CreateMessage", mock.AnythingOfType("*models.Message")).Return(nil)
	notifs.On("Create", mock.AnythingOfType("*models.Notification")).Return(nil)

	res, err := svc.AcceptConnection(7, 2)
	assert.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Connection accepted.", res.Message)

	notif := notifs.Calls[0].Arguments.Get(0).(*models.Notification)
	assert.Equal(t, domain.NotifTypeRequestAccepted, notif.Type)
	assert.Equal(t, uint(3), notif.ReceiverID)

	assert.Len(t, bus.events, 1)
	assert.Equal(t, event.TypeConnectionAccepted, bus.events[0].Type)
	assert.Equal(t, "Scientific Calculator", bus.events[0].Body)
	assert.Equal(t, uint(3), bus.events[0].ReceiverID)
}

func TestAcceptConnection_IdempotentCourtesy(t *testing.T) {
	svc, conns, _, notifs, _ := newTestService()
	conn := &models.Connection{
		ID: 7, ProductID: 5, RequesterID: 3, SellerID: 2,
		Status:  domain.ConnectionStatusAccepted,
		Product: *testProduct(),
	}
	courtesy := domain.CourtesyMessage("Scientific Calculator")
	conns.On("GetForSeller", uint(7), uint(2)).Return(conn, nil)
	conns.On("UpdateStatus", uint(7), domain.ConnectionStatusAccepted).Return(nil)
	conns.On("HasMessage", uint(7), uint(3), courtesy).Return(true, nil)
	notifs.On("Create", mock.AnythingOfType("*models.Notification")).Return(nil)

	res, err := svc.AcceptConnection(7, 2)
	assert.NoError(t, err)
	assert.True(t, res.Success)
	conns.AssertNotCalled(t, "CreateMessage", mock.Anything)
}

func TestAcceptConnection_NotSeller(t *testing.T) {
	svc, conns, _, _, bus := newTestService()
	conns.On("GetForSeller", uint(7), uint(99)).Return(nil, gorm.ErrRecordNotFound)

	res, err := svc.AcceptConnection(7, 99)
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.Nil(t, res)
	assert.Empty(t, bus.events)
}

func TestAcceptConnection_TitleFallback(t *testing.T) {
	svc, conns, _, notifs, bus := newTestService()
	conn := &models.Connection{ID: 7, ProductID: 5, RequesterID: 3, SellerID: 2}
	conns.On("GetForSeller", uint(7), uint(2)).Return(conn, nil)
	conns.On("UpdateStatus", uint(7), domain.ConnectionStatusAccepted).Return(nil)
	conns.On("HasMessage", uint(7), uint(3), domain.CourtesyMessage("this item")).Return(true, nil)
	notifs.On("Create", mock.AnythingOfType("*models.Notification")).Return(nil)

	_, err := svc.AcceptConnection(7, 2)
	assert.NoError(t, err)
	assert.Equal(t, "this item", bus.events[0].Body)
}

func TestDeclineConnection(t *testing.T) {
	svc, conns, _, _, bus := newTestService()
	conns.On("DeleteForSeller", uint(7), uint(2)).Return(nil)

	res := svc.DeclineConnection(7, 2)
	assert.True(t, res.Success)
	assert.Equal(t, "Request declined.", res.Message)
	assert.Len(t, bus.events, 1)
	assert.Equal(t, event.TypeConnectionDeclined, bus.events[0].Type)
}

func TestDeclineConnection_DeleteFailureStillSucceeds(t *testing.T) {
	svc, conns, _, _, _ := newTestService()
	conns.On("DeleteForSeller", uint(7), uint(2)).Return(errors.New("db down"))

	res := svc.DeclineConnection(7, 2)
	assert.True(t, res.Success)
	assert.Equal(t, "Request declined.", res.Message)
}

func TestCanSend_GateTable(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	conn := func(status string) *models.Connection {
		return &models.Connection{ID: 7, RequesterID: 3, SellerID: 2, Status: status}
	}
	courtesy := domain.CourtesyMessage("Scientific Calculator")

	tests := []struct {
		name    string
		status  string
		sender  uint
		content string
		wantErr error
	}{
		{"pending requester courtesy", domain.ConnectionStatusPending, 3, courtesy, nil},
		{"pending requester prefix only", domain.ConnectionStatusPending, 3, domain.CourtesyMessagePrefix + " something else", nil},
		{"pending requester free text", domain.ConnectionStatusPending, 3, "is this still available?", ErrAwaitingAcceptance},
		{"pending seller", domain.ConnectionStatusPending, 2, "hello", ErrChatNotAccepted},
		{"pending stranger", domain.ConnectionStatusPending, 99, courtesy, ErrNotParticipant},
		{"accepted requester", domain.ConnectionStatusAccepted, 3, "can we meet at the hostel gate?", nil},
		{"accepted seller", domain.ConnectionStatusAccepted, 2, "sure, 5pm works", nil},
		{"accepted stranger", domain.ConnectionStatusAccepted, 99, "hi", ErrNotParticipant},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.CanSend(conn(tc.status), tc.sender, tc.content)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestSendMessage_MissingFields(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	for name, run := range map[string]func() (*models.Message, error){
		"empty content":      func() (*models.Message, error) { return svc.SendMessage(7, 3, 2, "") },
		"zero connection id": func() (*models.Message, error) { return svc.SendMessage(0, 3, 2, "hi") },
		"zero receiver id":   func() (*models.Message, error) { return svc.SendMessage(7, 3, 0, "hi") },
	} {
		t.Run(name, func(t *testing.T) {
			msg, err := run()
			assert.ErrorIs(t, err, ErrMissingFields)
			assert.Nil(t, msg)
		})
	}
}

func TestSendMessage_ConnectionNotFound(t *testing.T) {
	svc, conns, _, _, _ := newTestService()
	conns.On("GetByID", uint(7)).Return(nil, gorm.ErrRecordNotFound)

	msg, err := svc.SendMessage(7, 3, 2, "hello")
	assert.ErrorIs(t, err, ErrConnectionNotFound)
	assert.Nil(t, msg)
}

func TestSendMessage_GateDeniesNothingWritten(t *testing.T) {
	svc, conns, _, notifs, bus := newTestService()
	conn := &models.Connection{ID: 7, RequesterID: 3, SellerID: 2, Status: domain.ConnectionStatusPending}
	conns.On("GetByID", uint(7)).Return(conn, nil)

	msg, err := svc.SendMessage(7, 3, 2, "any update?")
	assert.ErrorIs(t, err, ErrAwaitingAcceptance)
	assert.Nil(t, msg)
	conns.AssertNotCalled(t, "CreateMessage", mock.Anything)
	notifs.AssertNotCalled(t, "Create", mock.Anything)
	assert.Empty(t, bus.events)
}

func TestSendMessage_Success(t *testing.T) {
	svc, conns, _, notifs, bus := newTestService()
	conn := &models.Connection{ID: 7, ProductID: 5, RequesterID: 3, SellerID: 2, Status: domain.ConnectionStatusAccepted}
	conns.On("GetByID", uint(7)).Return(conn, nil)
	conns.On("CreateMessage", mock.AnythingOfType("*models.Message")).Return(nil)
	notifs.On("Create", mock.AnythingOfType("*models.Notification")).Return(nil)

	msg, err := svc.SendMessage(7, 2, 3, "meet tomorrow?")
	assert.NoError(t, err)
	assert.Equal(t, "meet tomorrow?", msg.Content)
	assert.Equal(t, uint(2), msg.SenderID)

	notif := notifs.Calls[0].Arguments.Get(0).(*models.Notification)
	assert.Equal(t, uint(3), notif.ReceiverID)
	assert.Equal(t, domain.NotifTypeNewMessage, notif.Type)

	assert.Len(t, bus.events, 1)
	assert.Equal(t, event.TypeMessageCreated, bus.events[0].Type)
	assert.Equal(t, "meet tomorrow?", bus.events[0].Body)
	assert.Equal(t, uint(3), bus.events[0].ReceiverID)
}

func TestSendMessage_NotificationFailureDoesNotFailSend(t *testing.T) {
	svc, conns, _, notifs, bus := newTestService()
	conn := &models.Connection{ID: 7, ProductID: 5, RequesterID: 3, SellerID: 2, Status: domain.ConnectionStatusAccepted}
	conns.On("GetByID", uint(7)).Return(conn, nil)
	conns.On("CreateMessage", mock.AnythingOfType("*models.Message")).Return(nil)
	notifs.On("Create", mock.AnythingOfType("*models.Notification")).Return(errors.New("db down"))

	msg, err := svc.SendMessage(7, 2, 3, "still there?")
	assert.NoError(t, err)
	assert.NotNil(t, msg)
	assert.Len(t, bus.events, 1)
}

// Decline then re-request: the lifecycle the hard delete exists for.
func TestDeclineThenRequestAgain(t *testing.T) {
	svc, conns, products, notifs, bus := newTestService()
	products.On("GetByID", uint(5)).Return(testProduct(), nil)
	conns.On("DeleteForSeller", uint(1), uint(2)).Return(nil)
	conns.On("Create", mock.AnythingOfType("*models.Connection")).Return(nil)
	conns.On("CreateMessage", mock.AnythingOfType("*models.Message")).Return(nil)
	notifs.On("Create", mock.AnythingOfType("*models.Notification")).Return(nil)

	first, err := svc.CreateConnection(5, 2, 3)
	assert.NoError(t, err)
	assert.True(t, first.Success)

	declined := svc.DeclineConnection(first.ConnectionID, 2)
	assert.True(t, declined.Success)

	second, err := svc.CreateConnection(5, 2, 3)
	assert.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, "Connection sent successfully. Once the seller accepts, you will be notified.", second.Message)
	assert.Len(t, bus.events, 3)
}
