package handler

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	catalogapp "github.com/treadline/backend/internal/application/catalog"
	invapp "github.com/treadline/backend/internal/application/inventory"
	orderapp "github.com/treadline/backend/internal/application/order"
	"github.com/treadline/backend/internal/domain/catalog"
	"github.com/treadline/backend/internal/domain/inventory"
	"github.com/treadline/backend/internal/domain/order"
	"github.com/treadline/backend/internal/infrastructure/persistence"
	"github.com/treadline/backend/internal/interfaces/http/middleware"
)

// testEnv wires real services over an in-memory database so handler
// tests exercise the full request path.
type testEnv struct {
	db             *gorm.DB
	ledger         *invapp.InventoryLedger
	orderService   *orderapp.OrderService
	productService *catalogapp.ProductService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalog.Product{},
		&inventory.StockItem{},
		&inventory.StockMovement{},
		&order.Order{},
		&order.OrderLine{},
	)
	require.NoError(t, err)

	itemRepo := persistence.NewGormStockItemRepository(db)
	movementRepo := persistence.NewGormStockMovementRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	productRepo := persistence.NewGormProductRepository(db)

	ledger := invapp.NewInventoryLedger(itemRepo, movementRepo, zap.NewNop())
	orderService := orderapp.NewOrderService(orderRepo, productRepo, ledger, zap.NewNop())
	productService := catalogapp.NewProductService(productRepo)

	return &testEnv{
		db:             db,
		ledger:         ledger,
		orderService:   orderService,
		productService: productService,
	}
}

func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	return r
}

func jsonBody(t *testing.T, payload any) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func setLevelsReq(productID uuid.UUID, location string, minLevel, maxLevel int64) invapp.SetLevelsRequest {
	return invapp.SetLevelsRequest{
		ProductID: productID,
		Location:  location,
		MinLevel:  minLevel,
		MaxLevel:  maxLevel,
	}
}
