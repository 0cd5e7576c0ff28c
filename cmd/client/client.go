package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"

	"exchangecore/internal/common"
	exnet "exchangecore/internal/net"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "address of the exchange server")
	owner := flag.String("owner", "", "owner username (required)")
	action := flag.String("action", "place", "action: place, cancel, amend, log")

	symbol := flag.String("symbol", "AAPL", "symbol")
	sideStr := flag.String("side", "buy", "buy or sell")
	kindStr := flag.String("kind", "limit", "limit, market, stop_market, stop_limit, iceberg")
	tifStr := flag.String("tif", "gtc", "gtc, ioc, fok, post_only, gtd")
	price := flag.Int64("price", 0, "limit price, scaled integer")
	stopPrice := flag.Int64("stop-price", 0, "stop price, scaled integer")
	qty := flag.Int64("qty", 0, "quantity, scaled integer")
	displayQty := flag.Int64("display-qty", 0, "iceberg display quantity, scaled integer")

	orderID := flag.String("order-id", "", "order id for cancel/amend")
	newQty := flag.Int64("new-qty", 0, "new remaining quantity for amend")

	flag.Parse()

	if *owner == "" {
		fmt.Println("error: -owner is required")
		flag.Usage()
		os.Exit(1)
	}

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", *serverAddr, err)
	}
	defer conn.Close()
	fmt.Printf("connected to %s as %q\n", *serverAddr, *owner)

	go readReports(conn)

	switch strings.ToLower(*action) {
	case "place":
		if err := sendNewOrder(conn, newOrderParams{
			owner: *owner, symbol: *symbol, side: parseSide(*sideStr), kind: parseKind(*kindStr),
			tif: parseTIF(*tifStr), price: *price, stopPrice: *stopPrice, qty: *qty, displayQty: *displayQty,
		}); err != nil {
			log.Printf("failed to place order: %v", err)
		} else {
			fmt.Printf("-> submitted %s %s %s qty=%d\n", strings.ToUpper(*sideStr), *symbol, strings.ToUpper(*kindStr), *qty)
		}
	case "cancel":
		if *orderID == "" {
			log.Fatal("error: -order-id is required for cancel")
		}
		if err := sendCancelOrder(conn, *symbol, *orderID); err != nil {
			log.Printf("failed to send cancel: %v", err)
		} else {
			fmt.Printf("-> cancel requested for %s\n", *orderID)
		}
	case "amend":
		if *orderID == "" {
			log.Fatal("error: -order-id is required for amend")
		}
		if err := sendAmendOrder(conn, *symbol, *orderID, *newQty); err != nil {
			log.Printf("failed to send amend: %v", err)
		} else {
			fmt.Printf("-> amend requested for %s -> qty=%d\n", *orderID, *newQty)
		}
	case "log":
		if err := sendLogBook(conn); err != nil {
			log.Printf("failed to send log request: %v", err)
		}
	default:
		log.Fatalf("unknown action: %s", *action)
	}

	fmt.Println("listening for reports... (ctrl+c to exit)")
	select {}
}

func parseSide(s string) common.Side {
	if strings.ToLower(s) == "sell" {
		return common.Sell
	}
	return common.Buy
}

func parseKind(s string) common.Kind {
	switch strings.ToLower(s) {
	case "market":
		return common.Market
	case "stop_market":
		return common.StopMarket
	case "stop_limit":
		return common.StopLimit
	case "iceberg":
		return common.Iceberg
	default:
		return common.Limit
	}
}

func parseTIF(s string) common.TIF {
	switch strings.ToLower(s) {
	case "ioc":
		return common.IOC
	case "fok":
		return common.FOK
	case "post_only":
		return common.PostOnly
	case "gtd":
		return common.GTD
	default:
		return common.GTC
	}
}

type newOrderParams struct {
	owner      string
	symbol     string
	side       common.Side
	kind       common.Kind
	tif        common.TIF
	price      int64
	stopPrice  int64
	qty        int64
	displayQty int64
}

func sendNewOrder(conn net.Conn, p newOrderParams) error {
	symbolBytes := []byte(p.symbol)
	ownerBytes := []byte(p.owner)

	body := make([]byte, 0, exnet.NewOrderMessageHeaderLen+len(symbolBytes)+len(ownerBytes))
	body = append(body, byte(len(symbolBytes)))
	body = append(body, byte(p.kind), byte(p.tif))
	body = appendUint64(body, uint64(p.price))
	body = appendUint64(body, uint64(p.stopPrice))
	body = appendUint64(body, uint64(p.qty))
	body = appendUint64(body, uint64(p.displayQty))
	body = append(body, byte(p.side))
	body = appendUint64(body, 0) // GTD expiry unset from the CLI
	body = append(body, byte(len(ownerBytes)))
	body = append(body, symbolBytes...)
	body = append(body, ownerBytes...)

	return sendFramed(conn, exnet.NewOrder, body)
}

func sendCancelOrder(conn net.Conn, symbol, orderID string) error {
	symbolBytes := []byte(symbol)
	idBytes := []byte(orderID)
	body := make([]byte, 0, 2+len(symbolBytes)+len(idBytes))
	body = append(body, byte(len(symbolBytes)), byte(len(idBytes)))
	body = append(body, symbolBytes...)
	body = append(body, idBytes...)
	return sendFramed(conn, exnet.CancelOrder, body)
}

func sendAmendOrder(conn net.Conn, symbol, orderID string, newQty int64) error {
	symbolBytes := []byte(symbol)
	idBytes := []byte(orderID)
	body := make([]byte, 0, 2+len(symbolBytes)+len(idBytes)+8)
	body = append(body, byte(len(symbolBytes)), byte(len(idBytes)))
	body = append(body, symbolBytes...)
	body = append(body, idBytes...)
	body = appendUint64(body, uint64(newQty))
	return sendFramed(conn, exnet.AmendOrder, body)
}

func sendLogBook(conn net.Conn) error {
	return sendFramed(conn, exnet.LogBook, nil)
}

func sendFramed(conn net.Conn, typeOf exnet.MessageType, body []byte) error {
	buf := make([]byte, exnet.BaseMessageHeaderLen+len(body))
	binary.BigEndian.PutUint16(buf[0:2], uint16(typeOf))
	copy(buf[2:], body)
	_, err := conn.Write(buf)
	return err
}

func appendUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

// readReports continuously reads and prints Report messages from the server.
func readReports(conn net.Conn) {
	for {
		headerBuf := make([]byte, 35) // fixed header up to and including symbolLen
		if _, err := io.ReadFull(conn, headerBuf); err != nil {
			if err != io.EOF {
				log.Printf("connection lost: %v", err)
			}
			os.Exit(0)
		}

		msgType := exnet.ReportMessageType(headerBuf[0])
		side := common.Side(headerBuf[1])
		status := common.Status(headerBuf[2])
		price := int64(binary.BigEndian.Uint64(headerBuf[11:19]))
		qty := int64(binary.BigEndian.Uint64(headerBuf[19:27]))
		orderIDLen := binary.BigEndian.Uint16(headerBuf[27:29])
		errStrLen := binary.BigEndian.Uint32(headerBuf[29:33])
		symbolLen := binary.BigEndian.Uint16(headerBuf[33:35])

		varLen := int(orderIDLen) + int(symbolLen) + int(errStrLen)
		varBuf := make([]byte, varLen)
		if varLen > 0 {
			if _, err := io.ReadFull(conn, varBuf); err != nil {
				log.Printf("error reading report body: %v", err)
				return
			}
		}

		orderID := string(varBuf[:orderIDLen])
		symbol := string(varBuf[orderIDLen : int(orderIDLen)+int(symbolLen)])
		errStr := string(varBuf[int(orderIDLen)+int(symbolLen):])

		switch msgType {
		case exnet.ErrorReport:
			fmt.Printf("\n[ERROR] %s\n", errStr)
		case exnet.OrderStatusReport:
			fmt.Printf("\n[STATUS] %s %s -> %s\n", symbol, orderID, status)
		default:
			sideStr := "BUY"
			if side == common.Sell {
				sideStr = "SELL"
			}
			fmt.Printf("\n[EXECUTION] %s %s qty=%d price=%d order=%s\n", sideStr, symbol, qty, price, orderID)
		}
	}
}
