package socket

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/apazos/monopoly-ledger/app/models"
	"github.com/apazos/monopoly-ledger/platform/cache"
	"github.com/apazos/monopoly-ledger/platform/database"
	"github.com/apazos/monopoly-ledger/platform/economy"
	"github.com/apazos/monopoly-ledger/platform/ledger"
	"github.com/apazos/monopoly-ledger/platform/session"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// PoolTarget is the transfer destination naming the lottery/tax pool
// instead of a participant.
const PoolTarget = "LOTTERY"

// CreateSocketIOServer runs the realtime surface. The server process is
// the single authority: every mutation commits here, clients only learn
// about it through the broadcasts.
func CreateSocketIOServer() {
	server, err := socketio.NewServer(nil)
	if err != nil {
		panic(err)
	}

	db := database.PostgreSQLConnection()
	defer db.Close()

	var newStore session.StoreFactory
	if os.Getenv("REDIS_URL") != "" {
		// Wait for Redis before accepting events.
		conn, err := cache.DialWithRetry(context.Background())
		if err != nil {
			logrus.WithError(err).Fatal("redis unreachable")
		}
		conn.Close()

		pool := cache.CreateRedisPool()
		defer pool.Close()
		newStore = func(sessionID string) ledger.Store {
			return cache.NewSessionStore(sessionID, pool)
		}
	} else {
		logrus.Warn("REDIS_URL not set, session state is in-memory only")
		newStore = func(string) ledger.Store {
			return ledger.NewMemoryStore()
		}
	}

	manager := session.NewManager(newStore, ledger.LocalAuthority{})

	getService := func(s socketio.Conn, sessionID string) (*session.Service, bool) {
		record := &models.Session{Id: sessionID}
		if err := db.Model(record).WherePK().Select(); err != nil {
			s.Emit("error-message", "Invalid session")
			return nil, false
		}
		svc, err := manager.GetOrCreate(sessionID, economy.Config{
			AnchorValue:     record.AnchorValue,
			MinDenomination: record.MinDenomination,
		})
		if err != nil {
			logrus.WithError(err).WithField("session", sessionID).Error("failed to build session service")
			s.Emit("error-message", "Unable to open session")
			return nil, false
		}
		svc.SetNotifier(func(keys ...string) {
			payload, _ := json.Marshal(keys)
			server.BroadcastToRoom("/", sessionID, "state-changed", string(payload))
		})
		return svc, true
	}

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		return nil
	})

	server.OnEvent("/", "join-session", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)

		sessionID, ok := result["session_id"]
		if !ok {
			s.Emit("error-message", "session_id not passed")
			return
		}
		userID, ok := result["user_id"]
		if !ok {
			s.Emit("error-message", "User not authenticated")
			return
		}

		svc, ok := getService(s, sessionID)
		if !ok {
			return
		}

		participant, err := svc.Join(userID, result["name"])
		if err != nil {
			s.Emit("error-message", "Failed joining session")
			return
		}

		s.Join(sessionID)
		server.BroadcastToRoom("/", sessionID, "participant-join", userID)

		payload, _ := json.Marshal(participant)
		s.Emit("joined-session", string(payload))
	})

	server.OnEvent("/", "leave-session", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)

		svc, ok := manager.Get(result["session_id"])
		if !ok {
			return
		}
		if err := svc.Leave(result["user_id"]); err != nil {
			logrus.WithError(err).Warn("leave failed")
		}
		s.Leave(result["session_id"])
		server.BroadcastToRoom("/", result["session_id"], "participant-left", result["user_id"])
	})

	server.OnEvent("/", "request-transfer", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)

		svc, ok := manager.Get(result["session_id"])
		if !ok {
			s.Emit("error-message", "Invalid session")
			return
		}
		gross, err := strconv.ParseInt(result["amount"], 10, 64)
		if err != nil {
			s.Emit("error-message", "Invalid amount")
			return
		}

		dest := ledger.ToParticipant(result["target"])
		if result["target"] == PoolTarget {
			dest = ledger.ToPool()
		}

		applied, err := svc.RequestTransfer(result["source"], dest, gross)
		if err != nil {
			s.Emit("error-message", transferError(err))
			return
		}
		payload, _ := json.Marshal(applied)
		s.Emit("transfer-applied", string(payload))
	})

	server.OnEvent("/", "add-to-pool", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)

		svc, ok := manager.Get(result["session_id"])
		if !ok {
			s.Emit("error-message", "Invalid session")
			return
		}
		amount, err := strconv.ParseInt(result["amount"], 10, 64)
		if err != nil {
			s.Emit("error-message", "Invalid amount")
			return
		}
		if err := svc.AddToPool(amount); err != nil {
			s.Emit("error-message", transferError(err))
		}
	})

	server.OnEvent("/", "withdraw-pool", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)

		svc, ok := manager.Get(result["session_id"])
		if !ok {
			s.Emit("error-message", "Invalid session")
			return
		}
		amount, err := svc.WithdrawPool()
		if err != nil {
			s.Emit("error-message", transferError(err))
			return
		}
		s.Emit("pool-withdrawn", strconv.FormatInt(amount, 10))
	})

	server.OnEvent("/", "draw-card", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)

		svc, ok := manager.Get(result["session_id"])
		if !ok {
			s.Emit("error-message", "Invalid session")
			return
		}
		effect, err := svc.DrawCard(result["deck"], result["user_id"])
		if err != nil {
			s.Emit("error-message", transferError(err))
			return
		}
		payload, _ := json.Marshal(effect)
		server.BroadcastToRoom("/", result["session_id"], "card-drawn", string(payload))
	})

	server.OnEvent("/", "return-jail-card", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)

		svc, ok := manager.Get(result["session_id"])
		if !ok {
			s.Emit("error-message", "Invalid session")
			return
		}
		if err := svc.ReturnJailCard(result["deck"], result["user_id"]); err != nil {
			s.Emit("error-message", transferError(err))
		}
	})

	server.OnEvent("/", "query-balance", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)

		svc, ok := manager.Get(result["session_id"])
		if !ok {
			s.Emit("error-message", "Invalid session")
			return
		}
		balance, err := svc.QueryBalance(result["user_id"])
		if err != nil {
			s.Emit("error-message", transferError(err))
			return
		}
		s.Emit("balance", strconv.FormatInt(balance, 10))
	})

	server.OnEvent("/", "query-pool", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)

		svc, ok := manager.Get(result["session_id"])
		if !ok {
			s.Emit("error-message", "Invalid session")
			return
		}
		pool, err := svc.QueryPool()
		if err != nil {
			s.Emit("error-message", transferError(err))
			return
		}
		s.Emit("pool", strconv.FormatInt(pool, 10))
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		logrus.WithError(e).Error("socket error")
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		for _, room := range s.Rooms() {
			server.BroadcastToRoom("/", room, "participant-left")
		}
		s.LeaveAll()
	})

	go server.Serve()
	defer server.Close()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", server)
	http.ListenAndServe(":8000", c.Handler(mux))
}

// transferError maps ledger errors to the short messages clients show.
func transferError(err error) string {
	switch err {
	case ledger.ErrInvalidAmount:
		return "The amount must be greater than 0"
	case ledger.ErrInsufficientFunds:
		return "Insufficient funds"
	case ledger.ErrNotAuthority:
		return "Only the session authority can do that"
	case ledger.ErrNoBankAssigned:
		return "No bank is assigned yet"
	case ledger.ErrUnknownParticipant:
		return "Unknown participant"
	default:
		return "Operation failed"
	}
}
