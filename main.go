package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/inventory-card/pkg/common"
	"github.com/matst80/inventory-card/pkg/filter"
	"github.com/matst80/inventory-card/pkg/messaging"
	"github.com/matst80/inventory-card/pkg/render"
	"github.com/matst80/inventory-card/pkg/server"
	"github.com/matst80/inventory-card/pkg/sorting"
	"github.com/matst80/inventory-card/pkg/state"
	"github.com/matst80/inventory-card/pkg/storage"
	"github.com/matst80/inventory-card/pkg/tracking"
	"github.com/matst80/inventory-card/pkg/translations"
	"github.com/matst80/inventory-card/pkg/types"
)

var enableProfiling = flag.Bool("profiling", false, "enable profiling endpoints")
var cardsFile = flag.String("cards", "data/cards.json", "card configuration file")
var listenAddress = flag.String("listen", ":8080", "listen address")

var rabbitUrl = os.Getenv("RABBIT_URL")
var topicPrefix = os.Getenv("TOPIC_PREFIX")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var dataPath = os.Getenv("DATA_PATH")
var translationsUrl = os.Getenv("TRANSLATIONS_URL")
var jwtSecret = os.Getenv("JWT_SECRET")

func newFilterStorage() storage.KeyValueStore {
	if redisUrl != "" {
		log.Printf("Using redis filter storage, url: %s", redisUrl)
		return storage.NewRedisStorage(redisUrl, redisPassword, 0)
	}
	if dataPath != "" {
		disk, err := storage.NewDiskStorage(dataPath)
		if err != nil {
			log.Fatalf("Failed to open disk storage at %s, %v", dataPath, err)
		}
		log.Printf("Using disk filter storage, path: %s", dataPath)
		return disk
	}
	log.Println("No REDIS_URL or DATA_PATH set, filter states are not persisted")
	return storage.NewMemoryStorage()
}

func loadCardConfigs(filename string) []types.CardConfig {
	file, err := os.Open(filename)
	if err != nil {
		log.Fatalf("Failed to open card configuration %s, %v", filename, err)
	}
	defer file.Close()
	var configs []types.CardConfig
	if err := json.NewDecoder(file).Decode(&configs); err != nil {
		log.Fatalf("Failed to parse card configuration %s, %v", filename, err)
	}
	if len(configs) == 0 {
		log.Fatalf("Card configuration %s holds no cards", filename)
	}
	return configs
}

func main() {
	flag.Parse()
	ctx := context.Background()

	registry := state.NewRegistry()
	store := filter.NewStore(newFilterStorage())
	engine := filter.NewEngine()
	sorter := sorting.NewSorter()

	var manager *translations.Manager
	if translationsUrl != "" {
		manager = translations.NewManager(translations.NewHTTPFetcher(translationsUrl))
	} else {
		log.Println("No TRANSLATIONS_URL set, cards use built-in fallback texts")
	}

	tracker := tracking.NewMemoryTracker(0)

	var rabbit *amqp.Connection
	var rabbitTracking *tracking.RabbitTracking
	if rabbitUrl != "" {
		conn, err := amqp.Dial(rabbitUrl)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ, %v", err)
		}
		rabbit = conn
		setupCh, err := conn.Channel()
		if err != nil {
			log.Fatalf("Failed to open RabbitMQ channel, %v", err)
		}
		for _, topic := range []messaging.ChangeTopic{messaging.EntityUpdated, messaging.FiltersCleared} {
			if err := messaging.DefineTopic(setupCh, topicPrefix, topic); err != nil {
				log.Fatalf("Failed to declare %s topic, %v", topic, err)
			}
		}
		setupCh.Close()
		rabbitTracking, err = tracking.NewRabbitTracking(rabbitUrl, topicPrefix)
		if err != nil {
			log.Fatalf("Failed to create rabbit tracking, %v", err)
		}
		tracker.Publish = rabbitTracking.Send
		log.Printf("Connected to RabbitMQ, url: %s", rabbitUrl)
	}

	srv := &server.WebServer{
		Registry:        registry,
		Store:           store,
		EnableProfiling: *enableProfiling,
	}
	if jwtSecret != "" {
		srv.Auth = &server.Auth{Secret: []byte(jwtSecret)}
	}
	if rabbit != nil {
		srv.OnFiltersCleared = func(entityId string) {
			if err := messaging.SendChange(rabbit, topicPrefix, messaging.FiltersCleared, entityId); err != nil {
				log.Printf("Failed to announce cleared filters for %s: %v", entityId, err)
			}
		}
	}

	pipelines := make(map[string]*render.Pipeline)
	for _, config := range loadCardConfigs(*cardsFile) {
		config := config
		renderer := render.NewHTMLRenderer()
		pipeline, err := render.NewPipeline(&config, registry, &render.Services{
			Filters:  store,
			Engine:   engine,
			Sorter:   sorter,
			Renderer: renderer,
			Events:   render.WiringFunc(func() error { return nil }),
			Tracker:  tracker,
		}, manager, nil)
		if err != nil {
			log.Fatalf("Failed to build card for %s, %v", config.Entity, err)
		}
		pipeline.LoadTranslations(ctx, config.Language)
		pipeline.Render(ctx)
		pipelines[config.Entity] = pipeline
		srv.AddCard(&server.Card{Pipeline: pipeline, Renderer: renderer})
		log.Printf("Card registered for entity %s", config.Entity)
	}

	if rabbit != nil {
		ch, err := rabbit.Channel()
		if err != nil {
			log.Fatalf("Failed to open RabbitMQ channel, %v", err)
		}
		err = messaging.ListenToTopic(ch, topicPrefix, messaging.EntityUpdated, func(d amqp.Delivery) error {
			var entityState types.EntityState
			if err := json.Unmarshal(d.Body, &entityState); err != nil {
				return err
			}
			registry.Set(&entityState)
			if pipeline, ok := pipelines[entityState.EntityId]; ok {
				pipeline.DebouncedRender(ctx)
			}
			return nil
		})
		if err != nil {
			log.Fatalf("Failed to listen for entity updates, %v", err)
		}
		clearCh, err := rabbit.Channel()
		if err != nil {
			log.Fatalf("Failed to open RabbitMQ channel, %v", err)
		}
		err = messaging.ListenToTopic(clearCh, topicPrefix, messaging.FiltersCleared, func(d amqp.Delivery) error {
			var entityId string
			if err := json.Unmarshal(d.Body, &entityId); err != nil {
				return err
			}
			if pipeline, ok := pipelines[entityId]; ok {
				pipeline.Render(ctx)
			}
			return nil
		})
		if err != nil {
			log.Fatalf("Failed to listen for cleared filters, %v", err)
		}
	}

	httpServer := &http.Server{
		Addr:    *listenAddress,
		Handler: srv.Handler(),
	}
	log.Printf("Starting server %v", *listenAddress)
	common.RunServerWithShutdown(httpServer, "inventory-card", 10*time.Second, func(ctx context.Context) error {
		for _, pipeline := range pipelines {
			pipeline.FlushPending()
			pipeline.Cleanup()
		}
		if rabbitTracking != nil {
			if err := rabbitTracking.Close(); err != nil {
				log.Printf("Failed to close rabbit tracking: %v", err)
			}
		}
		if rabbit != nil {
			return rabbit.Close()
		}
		return nil
	})
}
