package service

import (
	"errors"
	"log"
	"strings"

	"unimart/internal/domain"
	"unimart/internal/event"
	"unimart/internal/models"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrSelfConnection     = errors.New("you cannot start a chat about your own item")
	ErrProductNotFound    = errors.New("product not found")
	ErrConnectionNotFound = errors.New("connection not found")
	// ErrNotAuthorized deliberately reads the same for a missing connection and a
	// foreign one, so callers cannot probe for other users' connections.
	ErrNotAuthorized      = errors.New("connection not found or you are not authorized")
	ErrMissingFields      = errors.New("content, connection id and receiver id are required")
	ErrNotParticipant     = errors.New("you are not part of this conversation")
	ErrAwaitingAcceptance = errors.New("you cannot send more messages until the seller accepts your request")
	ErrChatNotAccepted    = errors.New("chat is not available until the seller accepts the request")
)

// ConnectionStore is what the lifecycle manager needs from persistence.
type ConnectionStore interface {
	Create(conn *models.Connection) error
	GetByID(id uint) (*models.Connection, error)
	GetForSeller(id, sellerID uint) (*models.Connection, error)
	UpdateStatus(id uint, status string) error
	DeleteForSeller(id, sellerID uint) error
	CreateMessage(m *models.Message) error
	HasMessage(connectionID, senderID uint, content string) (bool, error)
}

type ProductGetter interface {
	GetByID(id uint) (*models.Product, error)
}

type NotificationWriter interface {
	Create(n *models.Notification) error
}

// ConnectionService owns the connection lifecycle and the message gate. Every
// operation takes the acting user explicitly; nothing is read from ambient state.
type ConnectionService struct {
	connections   ConnectionStore
	products      ProductGetter
	notifications NotificationWriter
	bus           event.Publisher
}

func NewConnectionService(connections ConnectionStore, products ProductGetter, notifications NotificationWriter, bus event.Publisher) *ConnectionService {
	return &ConnectionService{
		connections:   connections,
		products:      products,
		notifications: notifications,
		bus:           bus,
	}
}

// ConnectResult is the caller-facing verdict of a lifecycle operation. Side-effect
// failures soften Message but never flip Success.
type ConnectResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ConnectionID uint   `json:"connection_id,omitempty"`
}

// CreateConnection inserts a pending connection for (product, requester) and seeds
// the thread with the courtesy first message. A duplicate request is a success, not
// an error: the unique index on (product_id, requester_id) resolves races and repeat
// taps alike.
func (s *ConnectionService) CreateConnection(productID, sellerID, requesterID uint) (*ConnectResult, error) {
	if requesterID == sellerID {
		return nil, ErrSelfConnection
	}
	product, err := s.products.GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	conn := &models.Connection{
		ProductID:   productID,
		RequesterID: requesterID,
		SellerID:    sellerID,
		Status:      domain.ConnectionStatusPending,
	}
	if err := s.connections.Create(conn); err != nil {
		if isDuplicateEntry(err) {
			return &ConnectResult{Success: true, Message: "Request already sent."}, nil
		}
		return nil, err
	}

	// The connection row is the durable artifact. From here on, failures are
	// logged and softened, never rolled back.
	courtesy := domain.CourtesyMessage(product.Title)
	msg := &models.Message{
		ConnectionID: conn.ID,
		SenderID:     requesterID,
		Content:      courtesy,
	}
	msgErr := s.connections.CreateMessage(msg)
	if msgErr != nil {
		log.Printf("[Connection] courtesy message insert failed for connection %d: %v", conn.ID, msgErr)
	}

	notif := &models.Notification{
		ReceiverID:   sellerID,
		ConnectionID: conn.ID,
		Type:         domain.NotifTypeNewMessage,
	}
	if msgErr == nil {
		notif.MessageID = &msg.ID
	}
	notifErr := s.notifications.Create(notif)
	if notifErr != nil {
		log.Printf("[Connection] notification insert failed for connection %d: %v", conn.ID, notifErr)
	}

	s.bus.Publish(event.Event{
		Type:         event.TypeConnectionRequested,
		ConnectionID: conn.ID,
		ProductID:    productID,
		ActorID:      requesterID,
		ReceiverID:   sellerID,
		MessageID:    msg.ID,
		Body:         courtesy,
	})

	res := &ConnectResult{Success: true, ConnectionID: conn.ID}
	switch {
	case msgErr != nil && notifErr != nil:
		res.Message = "Connection sent, but there was a problem delivering your message and notification. Please check your chat or try again."
	case msgErr != nil:
		res.Message = "Connection sent, but your initial message could not be delivered. Please try sending a message again."
	case notifErr != nil:
		res.Message = "Connection sent successfully. Once the seller accepts, you will be notified. (Notification delivery issue.)"
	default:
		res.Message = "Connection sent successfully. Once the seller accepts, you will be notified."
	}
	return res, nil
}

// AcceptConnection moves the connection to accepted. Only the seller can accept, and
// the seller check lives in the fetch predicate. Safe to call twice: the courtesy
// message is duplicate-guarded, and accepted never transitions back.
func (s *ConnectionService) AcceptConnection(connectionID, actingUserID uint) (*ConnectResult, error) {
	conn, err := s.connections.GetForSeller(connectionID, actingUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAuthorized
		}
		return nil, err
	}
	if err := s.connections.UpdateStatus(conn.ID, domain.ConnectionStatusAccepted); err != nil {
		return nil, err
	}

	title := conn.Product.Title
	if title == "" {
		title = "this item"
	}
	courtesy := domain.CourtesyMessage(title)
	var messageID *uint
	exists, err := s.connections.HasMessage(conn.ID, conn.RequesterID, courtesy)
	if err != nil {
		log.Printf("[Connection] courtesy lookup failed for connection %d: %v", conn.ID, err)
	}
	if err == nil && !exists {
		msg := &models.Message{
			ConnectionID: conn.ID,
			SenderID:     conn.RequesterID,
			Content:      courtesy,
		}
		if err := s.connections.CreateMessage(msg); err != nil {
			log.Printf("[Connection] courtesy message insert failed for connection %d: %v", conn.ID, err)
		} else {
			messageID = &msg.ID
		}
	}

	notif := &models.Notification{
		MessageID:    messageID,
		ReceiverID:   conn.RequesterID,
		ConnectionID: conn.ID,
		Type:         domain.NotifTypeRequestAccepted,
	}
	if err := s.notifications.Create(notif); err != nil {
		log.Printf("[Connection] accept notification insert failed for connection %d: %v", conn.ID, err)
	}

	s.bus.Publish(event.Event{
		Type:         event.TypeConnectionAccepted,
		ConnectionID: conn.ID,
		ProductID:    conn.ProductID,
		ActorID:      actingUserID,
		ReceiverID:   conn.RequesterID,
		Body:         title,
	})

	return &ConnectResult{Success: true, Message: "Connection accepted.", ConnectionID: conn.ID}, nil
}

// DeclineConnection deletes the row outright. No declined status, no audit trail:
// the requester sees nothing and may request again later. Best-effort by design.
func (s *ConnectionService) DeclineConnection(connectionID, actingUserID uint) *ConnectResult {
	if err := s.connections.DeleteForSeller(connectionID, actingUserID); err != nil {
		log.Printf("[Connection] decline failed for connection %d: %v", connectionID, err)
	}
	s.bus.Publish(event.Event{
		Type:         event.TypeConnectionDeclined,
		ConnectionID: connectionID,
		ActorID:      actingUserID,
	})
	return &ConnectResult{Success: true, Message: "Request declined."}
}

// CanSend is the message gate. It inspects only the connection's status and the
// sender's role; nothing is written on a denial.
//
//	status    | requester                       | seller | neither
//	pending   | allow only courtesy prefix      | deny   | deny
//	accepted  | allow                           | allow  | deny
func (s *ConnectionService) CanSend(conn *models.Connection, senderID uint, content string) error {
	if !conn.IsParticipant(senderID) {
		return ErrNotParticipant
	}
	if conn.Status == domain.ConnectionStatusAccepted {
		return nil
	}
	if senderID == conn.RequesterID {
		// Prefix match against the fixed opening phrase, exactly as shipped. A
		// user-typed message starting with the same words passes; preserved
		// behavior, not an oversight to fix here.
		if !strings.HasPrefix(content, domain.CourtesyMessagePrefix) {
			return ErrAwaitingAcceptance
		}
		return nil
	}
	return ErrChatNotAccepted
}

// SendMessage runs the gate, persists the message, fans out the unread row and
// publishes the event for push and realtime delivery.
func (s *ConnectionService) SendMessage(connectionID, senderID, receiverID uint, content string) (*models.Message, error) {
	if content == "" || connectionID == 0 || receiverID == 0 {
		return nil, ErrMissingFields
	}
	conn, err := s.connections.GetByID(connectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, err
	}
	if err := s.CanSend(conn, senderID, content); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConnectionID: connectionID,
		SenderID:     senderID,
		Content:      content,
	}
	if err := s.connections.CreateMessage(msg); err != nil {
		return nil, err
	}

	notif := &models.Notification{
		MessageID:    &msg.ID,
		ReceiverID:   receiverID,
		ConnectionID: connectionID,
		Type:         domain.NotifTypeNewMessage,
	}
	if err := s.notifications.Create(notif); err != nil {
		log.Printf("[Connection] notification insert failed for message %d: %v", msg.ID, err)
	}

	s.bus.Publish(event.Event{
		Type:         event.TypeMessageCreated,
		ConnectionID: connectionID,
		ProductID:    conn.ProductID,
		ActorID:      senderID,
		ReceiverID:   receiverID,
		MessageID:    msg.ID,
		Body:         content,
	})
	return msg, nil
}

func isDuplicateEntry(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
