package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/fungible-token-ledger/internal/auth"
	"github.com/sheikh-saqib/fungible-token-ledger/internal/events/kafka"
	eventsmem "github.com/sheikh-saqib/fungible-token-ledger/internal/events/memory"
	"github.com/sheikh-saqib/fungible-token-ledger/internal/interfaces"
	"github.com/sheikh-saqib/fungible-token-ledger/internal/models"
	"github.com/sheikh-saqib/fungible-token-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/fungible-token-ledger/internal/storage/postgres"
	redisstore "github.com/sheikh-saqib/fungible-token-ledger/internal/storage/redis"
	"github.com/sheikh-saqib/fungible-token-ledger/internal/token"
)

type server struct {
	ledger *token.Ledger
	log    zerolog.Logger
}

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not load .env")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	store, err := buildStore(log)
	if err != nil {
		log.Fatal().Err(err).Msg("store setup failed")
	}
	publisher := buildPublisher(log)

	srv := &server{
		ledger: token.NewLedger(store, auth.NewJWT([]byte(secret)), publisher, log),
		log:    log,
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/initialize", srv.handleInitialize).Methods(http.MethodPost)
	r.HandleFunc("/mint", srv.handleMint).Methods(http.MethodPost)
	r.HandleFunc("/burn", srv.handleBurn).Methods(http.MethodPost)
	r.HandleFunc("/transfer", srv.handleTransfer).Methods(http.MethodPost)
	r.HandleFunc("/approve", srv.handleApprove).Methods(http.MethodPost)
	r.HandleFunc("/transfer-from", srv.handleTransferFrom).Methods(http.MethodPost)

	r.HandleFunc("/accounts/balance", srv.handleBalance).Methods(http.MethodGet)
	r.HandleFunc("/accounts/allowance", srv.handleAllowance).Methods(http.MethodGet)
	r.HandleFunc("/token/metadata", srv.handleMetadata).Methods(http.MethodGet)
	r.HandleFunc("/token/supply", srv.handleSupply).Methods(http.MethodGet)
	r.HandleFunc("/token/admin", srv.handleAdmin).Methods(http.MethodGet)

	addr := os.Getenv("LEDGER_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Info().Str("addr", addr).Msg("starting token ledger server")
	if err := http.ListenAndServe(addr, withBearer(r)); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func buildStore(log zerolog.Logger) (interfaces.KVStore, error) {
	switch backend := os.Getenv("LEDGER_STORE"); backend {
	case "", "memory":
		log.Info().Msg("using in-memory store")
		return memory.NewStore(), nil
	case "postgres":
		db, err := sql.Open("postgres", os.Getenv("POSTGRES_DSN"))
		if err != nil {
			return nil, err
		}
		if err := db.Ping(); err != nil {
			return nil, err
		}
		log.Info().Msg("using postgres store")
		return postgres.NewStore(db), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: os.Getenv("REDIS_ADDR")})
		log.Info().Str("addr", os.Getenv("REDIS_ADDR")).Msg("using redis store")
		return redisstore.NewStore(client), nil
	default:
		return nil, errors.New("unknown LEDGER_STORE " + backend)
	}
}

func buildPublisher(log zerolog.Logger) interfaces.EventPublisher {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		log.Info().Msg("no KAFKA_BROKERS set, collecting events in memory")
		return eventsmem.NewPublisher()
	}
	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "token_ledger_events"
	}
	log.Info().Str("topic", topic).Msg("publishing events to kafka")
	return kafka.NewPublisher(strings.Split(brokers, ","), topic)
}

// withBearer moves the Authorization header onto the request context so the
// JWT authorizer can see it.
func withBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if tok, ok := strings.CutPrefix(header, "Bearer "); ok {
			r = r.WithContext(auth.WithBearer(r.Context(), tok))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Admin    models.AccountID `json:"admin"`
		Name     string           `json:"name"`
		Symbol   string           `json:"symbol"`
		Decimals uint32           `json:"decimals"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.respond(w, s.ledger.Initialize(r.Context(), req.Admin, req.Name, req.Symbol, req.Decimals), http.StatusCreated)
}

func (s *server) handleMint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To     models.AccountID `json:"to"`
		Amount decimal.Decimal  `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.respond(w, s.ledger.Mint(r.Context(), req.To, req.Amount), http.StatusOK)
}

func (s *server) handleBurn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From   models.AccountID `json:"from"`
		Amount decimal.Decimal  `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.respond(w, s.ledger.Burn(r.Context(), req.From, req.Amount), http.StatusOK)
}

func (s *server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From   models.AccountID `json:"from"`
		To     models.AccountID `json:"to"`
		Amount decimal.Decimal  `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.respond(w, s.ledger.Transfer(r.Context(), req.From, req.To, req.Amount), http.StatusOK)
}

func (s *server) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Owner   models.AccountID `json:"owner"`
		Spender models.AccountID `json:"spender"`
		Amount  decimal.Decimal  `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.respond(w, s.ledger.Approve(r.Context(), req.Owner, req.Spender, req.Amount), http.StatusOK)
}

func (s *server) handleTransferFrom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Spender models.AccountID `json:"spender"`
		From    models.AccountID `json:"from"`
		To      models.AccountID `json:"to"`
		Amount  decimal.Decimal  `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.respond(w, s.ledger.TransferFrom(r.Context(), req.Spender, req.From, req.To, req.Amount), http.StatusOK)
}

func (s *server) handleBalance(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account_id")
	if account == "" {
		writeError(w, http.StatusBadRequest, token.CodeNone, "account_id is required")
		return
	}
	balance, err := s.ledger.Balance(r.Context(), models.AccountID(account))
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"account_id": account, "balance": balance})
}

func (s *server) handleAllowance(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	spender := r.URL.Query().Get("spender")
	if owner == "" || spender == "" {
		writeError(w, http.StatusBadRequest, token.CodeNone, "owner and spender are required")
		return
	}
	allowance, err := s.ledger.Allowance(r.Context(), models.AccountID(owner), models.AccountID(spender))
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"owner": owner, "spender": spender, "allowance": allowance})
}

func (s *server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	meta, err := s.ledger.Metadata(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (s *server) handleSupply(w http.ResponseWriter, r *http.Request) {
	supply, err := s.ledger.TotalSupply(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"total_supply": supply})
}

func (s *server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	admin, err := s.ledger.Admin(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"admin": admin})
}

func (s *server) respond(w http.ResponseWriter, err error, okStatus int) {
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, okStatus, map[string]string{"status": "ok"})
}

func (s *server) writeFailure(w http.ResponseWriter, err error) {
	// Missing or unverifiable credential is 401; a valid credential held
	// by the wrong principal is 403.
	if errors.Is(err, auth.ErrUnauthenticated) {
		writeError(w, http.StatusUnauthorized, token.CodeNone, err.Error())
		return
	}
	if errors.Is(err, auth.ErrUnauthorized) {
		writeError(w, http.StatusForbidden, token.CodeNone, err.Error())
		return
	}
	code := token.CodeOf(err)
	switch code {
	case token.CodeAlreadyInitialized, token.CodeNotInitialized:
		writeError(w, http.StatusConflict, code, err.Error())
	case token.CodeInvalidAmount, token.CodeInvalidDecimals,
		token.CodeInvalidRecipient, token.CodeInvalidMetadata:
		writeError(w, http.StatusBadRequest, code, err.Error())
	case token.CodeInsufficientBalance, token.CodeInsufficientAllowance,
		token.CodeOverflow:
		writeError(w, http.StatusUnprocessableEntity, code, err.Error())
	default:
		s.log.Error().Err(err).Msg("operation failed")
		writeError(w, http.StatusInternalServerError, token.CodeNone, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, token.CodeNone, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code token.Code, msg string) {
	writeJSON(w, status, map[string]any{"error": msg, "code": code})
}
