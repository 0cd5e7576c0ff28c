package net

import (
	"encoding/binary"
	"testing"
	"time"

	"exchangecore/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeNewOrderBody(t *testing.T, kind common.Kind, tif common.TIF, side common.Side, symbol, owner string) []byte {
	t.Helper()
	symbolBytes := []byte(symbol)
	ownerBytes := []byte(owner)
	body := make([]byte, 0, NewOrderMessageHeaderLen+len(symbolBytes)+len(ownerBytes))
	body = append(body, byte(len(symbolBytes)))
	body = append(body, byte(kind), byte(tif))
	body = appendUint64Test(body, uint64(12345))
	body = appendUint64Test(body, uint64(100))
	body = appendUint64Test(body, uint64(10))
	body = appendUint64Test(body, uint64(3))
	body = append(body, byte(side))
	body = appendUint64Test(body, 0)
	body = append(body, byte(len(ownerBytes)))
	body = append(body, symbolBytes...)
	body = append(body, ownerBytes...)
	return body
}

func appendUint64Test(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func TestParseNewOrderRoundTrips(t *testing.T) {
	body := encodeNewOrderBody(t, common.Limit, common.GTC, common.Buy, "AAPL", "alice")
	msg, err := parseNewOrder(body)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", msg.Symbol)
	assert.Equal(t, "alice", msg.Owner)
	assert.Equal(t, common.Limit, msg.Kind)
	assert.Equal(t, common.GTC, msg.TIF)
	assert.Equal(t, common.Buy, msg.Side)
	assert.Equal(t, int64(12345), msg.LimitPrice)
	assert.Equal(t, int64(10), msg.Quantity)
	assert.True(t, msg.GTDExpiry.IsZero())
}

func TestParseNewOrderRejectsUnknownEnum(t *testing.T) {
	body := encodeNewOrderBody(t, common.Kind(99), common.GTC, common.Buy, "AAPL", "alice")
	_, err := parseNewOrder(body)
	assert.ErrorIs(t, err, ErrUnknownEnumValue)
}

func TestParseNewOrderRejectsShortMessage(t *testing.T) {
	_, err := parseNewOrder([]byte{0x01})
	assert.ErrorIs(t, err, ErrMessageTooShort)
}

func TestNewOrderMessageToOrder(t *testing.T) {
	m := NewOrderMessage{
		Symbol: "AAPL", Kind: common.Limit, TIF: common.GTC, Side: common.Buy,
		LimitPrice: 100, Quantity: 10, Owner: "alice",
	}
	o := m.Order()
	assert.Equal(t, "AAPL", o.Symbol)
	assert.Equal(t, "alice", o.Account)
	assert.Equal(t, int64(100), o.LimitPrice.Int64())
	assert.Equal(t, int64(10), o.Quantity.Int64())
}

func TestParseCancelOrderRoundTrips(t *testing.T) {
	body := []byte{4, 3}
	body = append(body, []byte("AAPL")...)
	body = append(body, []byte("o42")...)

	msg, err := parseCancelOrder(body)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", msg.Symbol)
	assert.Equal(t, "o42", msg.OrderID)
}

func TestParseAmendOrderRoundTrips(t *testing.T) {
	body := []byte{4, 3}
	body = append(body, []byte("AAPL")...)
	body = append(body, []byte("o42")...)
	body = appendUint64Test(body, 7)

	msg, err := parseAmendOrder(body)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", msg.Symbol)
	assert.Equal(t, "o42", msg.OrderID)
	assert.Equal(t, int64(7), msg.NewQty)
}

func TestParseMessageDispatchesOnType(t *testing.T) {
	body := encodeNewOrderBody(t, common.Limit, common.GTC, common.Buy, "AAPL", "alice")
	buf := make([]byte, BaseMessageHeaderLen+len(body))
	binary.BigEndian.PutUint16(buf[0:2], uint16(NewOrder))
	copy(buf[2:], body)

	msg, err := ParseMessage(buf)
	require.NoError(t, err)
	_, ok := msg.(NewOrderMessage)
	assert.True(t, ok)
}

func TestParseMessageRejectsUnknownType(t *testing.T) {
	buf := make([]byte, BaseMessageHeaderLen)
	binary.BigEndian.PutUint16(buf[0:2], 999)
	_, err := ParseMessage(buf)
	assert.ErrorIs(t, err, ErrInvalidMessageType)
}

func TestReportSerializeLayout(t *testing.T) {
	r := Report{
		MessageType: ExecutionReport,
		Side:        common.Buy,
		Status:      common.Filled,
		Timestamp:   1000,
		Price:       100,
		Quantity:    5,
		OrderID:     "o1",
		Symbol:      "AAPL",
	}
	buf := r.Serialize()

	assert.Equal(t, byte(ExecutionReport), buf[0])
	assert.Equal(t, byte(common.Buy), buf[1])
	assert.Equal(t, byte(common.Filled), buf[2])
	assert.Equal(t, int64(1000), int64(binary.BigEndian.Uint64(buf[3:11])))
	assert.Equal(t, int64(100), int64(binary.BigEndian.Uint64(buf[11:19])))
	assert.Equal(t, int64(5), int64(binary.BigEndian.Uint64(buf[19:27])))

	orderIDLen := binary.BigEndian.Uint16(buf[27:29])
	symbolLen := binary.BigEndian.Uint16(buf[33:35])
	assert.Equal(t, uint16(2), orderIDLen)
	assert.Equal(t, uint16(4), symbolLen)

	off := reportFixedHeaderLen
	assert.Equal(t, "o1", string(buf[off:off+int(orderIDLen)]))
	off += int(orderIDLen)
	assert.Equal(t, "AAPL", string(buf[off:off+int(symbolLen)]))
}

func TestTradeReportCarriesTradeFields(t *testing.T) {
	tr := &common.Trade{Symbol: "AAPL", Price: 100, Quantity: 5, EngineTime: time.Now()}
	r := tradeReport(tr, "order1", common.Sell)
	assert.Equal(t, ExecutionReport, r.MessageType)
	assert.Equal(t, common.Sell, r.Side)
	assert.Equal(t, "order1", r.OrderID)
	assert.Equal(t, "AAPL", r.Symbol)
}
