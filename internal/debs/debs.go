package deps

import (
	"log"

	"github.com/cityline/cityline_api/config"
	"github.com/cityline/cityline_api/internal/db"
	"github.com/cityline/cityline_api/util/cache"
	"github.com/cityline/cityline_api/util/events"
	"github.com/cityline/cityline_api/util/sms"
	"github.com/cityline/cityline_api/util/storage"
	"github.com/cityline/cityline_api/util/websockets"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependencies struct {
	DB        *db.DB
	Photos    storage.PhotoStore
	WebSocket *websockets.WebSocketManager
	SMS       sms.Channel
	Events    events.Publisher
	Cache     *cache.Cache
}

func New(cfg *config.Config) *Dependencies {
	database, err := db.New(cfg.Dsn)
	if err != nil {
		log.Panicln("failed to connect to database", "error", err)
	}

	photos := storage.NewCloudinary(cfg)
	websocket := websockets.NewWebSocketManager()
	smsChannel := sms.NewKavenegarChannel(cfg.KavenegarAPIKey)

	var publisher events.Publisher
	publisher, err = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		log.Printf("[Deps]: kafka producer unavailable, report events disabled: %v", err)
		publisher = events.NewNoopPublisher()
	}

	var statsCache *cache.Cache
	if cfg.RedisAddr != "" {
		statsCache, err = cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("[Deps]: redis unavailable, stats caching disabled: %v", err)
			statsCache = nil
		}
	}

	deps := Dependencies{
		DB:        database,
		Photos:    photos,
		WebSocket: websocket,
		SMS:       smsChannel,
		Events:    publisher,
		Cache:     statsCache,
	}
	return &deps
}

func (d *Dependencies) Pool() *pgxpool.Pool {
	return d.DB.Pool()
}

// Close releases every external connection owned by the container.
func (d *Dependencies) Close() {
	if d.Cache != nil {
		if err := d.Cache.Close(); err != nil {
			log.Printf("[Deps]: failed to close cache: %v", err)
		}
	}
	if err := d.Events.Close(); err != nil {
		log.Printf("[Deps]: failed to close event publisher: %v", err)
	}
	d.DB.Close()
}
