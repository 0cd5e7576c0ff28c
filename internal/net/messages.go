// Package net implements the binary wire protocol spec.md §6.1 carries
// around the core: fixed-width, big-endian headers for submitting and
// canceling orders, and for reporting trades/rejections back. None of this
// package's framing participates in the matching invariants — it only
// exists to drive the engine over a socket.
package net

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"exchangecore/internal/common"
	"exchangecore/internal/fixedpoint"
)

var (
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrMessageTooShort    = errors.New("message too short for specified field length")
	ErrUnknownEnumValue   = errors.New("unknown enum value on the wire")
)

// MessageType tags the first 2 bytes of every inbound message.
type MessageType uint16

const (
	Heartbeat MessageType = iota
	NewOrder
	CancelOrder
	AmendOrder
	LogBook
)

// ReportMessageType tags the first byte of every outbound report.
type ReportMessageType uint8

const (
	ExecutionReport ReportMessageType = iota
	OrderStatusReport
	ErrorReport
)

type Message interface {
	GetType() MessageType
}

// Message format constants. Unlike the single-asset teacher protocol, the
// order kind/TIF/stop-price/display-qty fields spec.md §3 added now need
// their own wire slots.
const (
	BaseMessageHeaderLen = 2

	// kind(1) + tif(1) + symbolLen(1) + limitPrice(8) + stopPrice(8) +
	// quantity(8) + displayQty(8) + side(1) + gtdExpiry(8) + ownerLen(1)
	NewOrderMessageHeaderLen = 1 + 1 + 1 + 8 + 8 + 8 + 8 + 1 + 8 + 1

	// symbolLen(1) + orderIDLen(1)
	CancelOrderMessageHeaderLen = 1 + 1

	// symbolLen(1) + orderIDLen(1) + newQty(8)
	AmendOrderMessageHeaderLen = 1 + 1 + 8
)

type BaseMessage struct {
	TypeOf MessageType
}

func (m BaseMessage) GetType() MessageType { return m.TypeOf }

func ParseMessage(msg []byte) (Message, error) {
	if len(msg) < BaseMessageHeaderLen {
		return nil, fmt.Errorf("%w: missing base header", ErrMessageTooShort)
	}
	typeOf := MessageType(binary.BigEndian.Uint16(msg[0:2]))
	body := msg[2:]
	switch typeOf {
	case NewOrder:
		return parseNewOrder(body)
	case CancelOrder:
		return parseCancelOrder(body)
	case AmendOrder:
		return parseAmendOrder(body)
	case LogBook:
		return BaseMessage{TypeOf: LogBook}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidMessageType, typeOf)
	}
}

// NewOrderMessage is the wire form of a Submit command (spec.md §6): a
// caller-facing order description, not yet carrying the engine-assigned id
// or sequence numbers.
type NewOrderMessage struct {
	BaseMessage
	Symbol     string
	Kind       common.Kind
	TIF        common.TIF
	Side       common.Side
	LimitPrice int64
	StopPrice  int64
	Quantity   int64
	DisplayQty int64
	GTDExpiry  time.Time
	Owner      string
}

// Order converts the wire message into a core Order, passing the wire's
// scaled integers through unchanged. The engine assigns ID/CreatedSeq/
// CreatedAt on acceptance; Owner is carried through as the order's opaque
// Account, since the core does not model accounts beyond that string.
func (m *NewOrderMessage) Order() *common.Order {
	return &common.Order{
		Account:    m.Owner,
		Symbol:     m.Symbol,
		Side:       m.Side,
		Kind:       m.Kind,
		TIF:        m.TIF,
		GTDExpiry:  m.GTDExpiry,
		LimitPrice: fixedpoint.Value(m.LimitPrice),
		StopPrice:  fixedpoint.Value(m.StopPrice),
		Quantity:   fixedpoint.Value(m.Quantity),
		DisplayQty: fixedpoint.Value(m.DisplayQty),
	}
}

func parseNewOrder(msg []byte) (NewOrderMessage, error) {
	m := NewOrderMessage{BaseMessage: BaseMessage{TypeOf: NewOrder}}
	if len(msg) < 1 {
		return NewOrderMessage{}, fmt.Errorf("%w: missing symbol length", ErrMessageTooShort)
	}
	symbolLen := int(msg[0])
	fixedStart := 1
	if len(msg) < fixedStart+NewOrderMessageHeaderLen-1+symbolLen {
		return NewOrderMessage{}, ErrMessageTooShort
	}

	m.Kind = common.Kind(msg[fixedStart])
	m.TIF = common.TIF(msg[fixedStart+1])
	off := fixedStart + 2
	m.LimitPrice = int64(binary.BigEndian.Uint64(msg[off : off+8]))
	off += 8
	m.StopPrice = int64(binary.BigEndian.Uint64(msg[off : off+8]))
	off += 8
	m.Quantity = int64(binary.BigEndian.Uint64(msg[off : off+8]))
	off += 8
	m.DisplayQty = int64(binary.BigEndian.Uint64(msg[off : off+8]))
	off += 8
	m.Side = common.Side(msg[off])
	off++
	gtdUnixNano := int64(binary.BigEndian.Uint64(msg[off : off+8]))
	if gtdUnixNano != 0 {
		m.GTDExpiry = time.Unix(0, gtdUnixNano).UTC()
	}
	off += 8
	ownerLen := int(msg[off])
	off++

	m.Symbol = string(msg[off : off+symbolLen])
	off += symbolLen
	if len(msg) < off+ownerLen {
		return NewOrderMessage{}, ErrMessageTooShort
	}
	m.Owner = string(msg[off : off+ownerLen])

	if err := validateEnumRanges(m.Kind, m.TIF, m.Side); err != nil {
		return NewOrderMessage{}, err
	}
	return m, nil
}

func validateEnumRanges(kind common.Kind, tif common.TIF, side common.Side) error {
	if kind < common.Limit || kind > common.Iceberg {
		return fmt.Errorf("%w: kind %d", ErrUnknownEnumValue, kind)
	}
	if tif < common.GTC || tif > common.GTD {
		return fmt.Errorf("%w: tif %d", ErrUnknownEnumValue, tif)
	}
	if side != common.Buy && side != common.Sell {
		return fmt.Errorf("%w: side %d", ErrUnknownEnumValue, side)
	}
	return nil
}

// CancelOrderMessage is the wire form of a Cancel command.
type CancelOrderMessage struct {
	BaseMessage
	Symbol  string
	OrderID string
}

func parseCancelOrder(msg []byte) (CancelOrderMessage, error) {
	m := CancelOrderMessage{BaseMessage: BaseMessage{TypeOf: CancelOrder}}
	if len(msg) < 2 {
		return CancelOrderMessage{}, ErrMessageTooShort
	}
	symbolLen := int(msg[0])
	orderIDLen := int(msg[1])
	if len(msg) < 2+symbolLen+orderIDLen {
		return CancelOrderMessage{}, ErrMessageTooShort
	}
	m.Symbol = string(msg[2 : 2+symbolLen])
	m.OrderID = string(msg[2+symbolLen : 2+symbolLen+orderIDLen])
	return m, nil
}

// AmendOrderMessage is the wire form of an AmendDownQty command.
type AmendOrderMessage struct {
	BaseMessage
	Symbol  string
	OrderID string
	NewQty  int64
}

func parseAmendOrder(msg []byte) (AmendOrderMessage, error) {
	m := AmendOrderMessage{BaseMessage: BaseMessage{TypeOf: AmendOrder}}
	if len(msg) < 2 {
		return AmendOrderMessage{}, ErrMessageTooShort
	}
	symbolLen := int(msg[0])
	orderIDLen := int(msg[1])
	if len(msg) < 2+symbolLen+orderIDLen+8 {
		return AmendOrderMessage{}, ErrMessageTooShort
	}
	off := 2
	m.Symbol = string(msg[off : off+symbolLen])
	off += symbolLen
	m.OrderID = string(msg[off : off+orderIDLen])
	off += orderIDLen
	m.NewQty = int64(binary.BigEndian.Uint64(msg[off : off+8]))
	return m, nil
}

// Report is the wire form of a Trade/OrderUpdate/error event sent back to
// a client, in the teacher's own big-endian fixed-header-then-strings
// style.
type Report struct {
	MessageType ReportMessageType
	Side        common.Side
	Status      common.Status
	Timestamp   int64
	Price       int64
	Quantity    int64
	OrderIDLen  uint16
	ErrStrLen   uint32
	SymbolLen   uint16
	OrderID     string
	Symbol      string
	Err         string
}

const reportFixedHeaderLen = 1 + 1 + 1 + 8 + 8 + 8 + 2 + 4 + 2

// Serialize converts the report to its wire form.
func (r *Report) Serialize() []byte {
	totalSize := reportFixedHeaderLen + len(r.OrderID) + len(r.Symbol) + len(r.Err)
	buf := make([]byte, totalSize)

	buf[0] = byte(r.MessageType)
	buf[1] = byte(r.Side)
	buf[2] = byte(r.Status)
	binary.BigEndian.PutUint64(buf[3:11], uint64(r.Timestamp))
	binary.BigEndian.PutUint64(buf[11:19], uint64(r.Price))
	binary.BigEndian.PutUint64(buf[19:27], uint64(r.Quantity))
	binary.BigEndian.PutUint16(buf[27:29], uint16(len(r.OrderID)))
	binary.BigEndian.PutUint32(buf[29:33], uint32(len(r.Err)))
	binary.BigEndian.PutUint16(buf[33:35], uint16(len(r.Symbol)))

	off := reportFixedHeaderLen
	off += copy(buf[off:], r.OrderID)
	off += copy(buf[off:], r.Symbol)
	copy(buf[off:], r.Err)
	return buf
}

// tradeReport builds the execution report for one side of a trade.
func tradeReport(t *common.Trade, orderID string, side common.Side) Report {
	return Report{
		MessageType: ExecutionReport,
		Side:        side,
		Timestamp:   t.EngineTime.UnixNano(),
		Price:       t.Price.Int64(),
		Quantity:    t.Quantity.Int64(),
		OrderID:     orderID,
		Symbol:      t.Symbol,
	}
}

func errorReport(err error) Report {
	return Report{
		MessageType: ErrorReport,
		Timestamp:   time.Now().UnixNano(),
		Err:         err.Error(),
	}
}
