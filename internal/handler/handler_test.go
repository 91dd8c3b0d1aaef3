package handler

import (
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/harroway/housemate/internal/auth"
	"github.com/harroway/housemate/internal/database"
	"github.com/harroway/housemate/internal/model"
	"github.com/harroway/housemate/internal/store"
)

type testEnv struct {
	db     *sql.DB
	logger *slog.Logger

	users     *store.UserStore
	houses    *store.HouseStore
	tasks     *store.TaskStore
	bills     *store.BillStore
	schedules *store.ScheduleStore

	user  *model.User
	house *model.House
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &testEnv{
		db:     db,
		logger: logger,
		users:     store.NewUserStore(db),
		houses:    store.NewHouseStore(db),
		tasks:     store.NewTaskStore(db, logger),
		bills:     store.NewBillStore(db),
		schedules: store.NewScheduleStore(db),
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	env.user, err = env.users.Create("Frodo", "Baggins", "frodo@example.com", string(hash))
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	env.house, err = env.houses.Create("Bag End", "Bagshot Row 1", "", env.user.ID)
	if err != nil {
		t.Fatalf("create house: %v", err)
	}
	if err := env.users.SetHouse(env.user.ID, &env.house.ID); err != nil {
		t.Fatalf("set house: %v", err)
	}

	return env
}

// authed attaches the given user's auth context, as the token middleware
// would after validating a bearer token.
func (e *testEnv) authed(r *http.Request, u *model.User) *http.Request {
	var houseID int64
	if u.HouseID != nil {
		houseID = *u.HouseID
	}
	ctx := auth.WithAuth(r.Context(), auth.AuthContext{
		UserID:  u.ID,
		HouseID: houseID,
		Role:    u.Role,
	})
	return r.WithContext(ctx)
}

func (e *testEnv) caller(t *testing.T) *model.User {
	t.Helper()
	u, err := e.users.GetByID(e.user.ID)
	if err != nil || u == nil {
		t.Fatalf("reload user: %v", err)
	}
	return u
}
