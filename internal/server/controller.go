package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"ncs/internal/api"
	"ncs/internal/api/jwt"
	"ncs/internal/api/middleware"
	"ncs/internal/ncsapi"
	"ncs/internal/worker"
)

var App *ncsapi.App
var AppWork *ncsapi.AppWork
var Pool *worker.Pool

// pongClock tracks the last pong seen on a connection. The reader goroutine
// beats it, the writer loop checks it.
type pongClock struct {
	v atomic.Int64
}

func newPongClock() *pongClock {
	c := &pongClock{}
	c.beat()
	return c
}

func (c *pongClock) beat() {
	c.v.Store(time.Now().UnixNano())
}

func (c *pongClock) stale(timeout time.Duration) bool {
	return time.Since(time.Unix(0, c.v.Load())) > timeout
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again in "+time.Until(info.ResetTime).String())
}

func ApiInit() { // Run Api Server
	App = ncsapi.Init()
	Pool = worker.NewPool(GlobalConfig.WorkerSpeed, GlobalConfig.WorkerQueue)
	ncsapi.SeedTasks(App.Db)
	router := gin.Default()
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	// This makes it so each ip can only make 100 requests per second
	store := ratelimit.RedisStore(&ratelimit.RedisOptions{
		RedisClient: redis.NewClient(&redis.Options{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       1,
		}),
		Rate:  time.Second,
		Limit: 100,
	})
	mw := ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://0.0.0.0:3000",
			"http://localhost:3000",
		},
		AllowHeaders:  []string{"Origin", "Access-Control-Allow-Origin", "Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		AllowMethods:  []string{"GET, POST, OPTIONS, PUT, DELETE"},
		MaxAge:        24 * time.Hour,
	}))
	router.Use(func(c *gin.Context) {
		c.Set("app", App)
		c.Set("pool", Pool)
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ws", mw, wsHandler)
	router.GET("/ws/", mw, wsHandler)
	auth := router.Group("/auth/")
	{
		auth.POST("/register", mw, api.Register)
		auth.POST("/register/", mw, api.Register)
		auth.POST("/signin", mw, api.Signin)
		auth.POST("/signin/", mw, api.Signin)
	}
	catalog := router.Group("/catalog/")
	{
		catalog.GET("/tasks", mw, api.GetTasks)
		catalog.GET("/tasks/", mw, api.GetTasks)
		catalog.GET("/levels", mw, api.GetLevels)
		catalog.GET("/levels/", mw, api.GetLevels)
	}
	users := router.Group("/users/").Use(middleware.Auth())
	{
		users.GET("/me", mw, api.GetUser)
		users.GET("/me/", mw, api.GetUser)
		users.GET("/progress", mw, api.GetProgress)
		users.GET("/progress/", mw, api.GetProgress)
		users.GET("/tx", mw, api.GetTransactionsList)
		users.GET("/tx/", mw, api.GetTransactionsList)
		users.GET("/ref", mw, api.GetReferrals)
		users.GET("/ref/", mw, api.GetReferrals)
		users.GET("/stats", mw, api.GetTaskStats)
		users.GET("/stats/", mw, api.GetTaskStats)
	}
	tasks := router.Group("/tasks/").Use(middleware.Auth())
	{
		tasks.POST("/:id/complete", mw, api.CompleteTask)
		tasks.POST("/:id/complete/", mw, api.CompleteTask)
	}
	tx := router.Group("/tx/").Use(middleware.Auth())
	{
		tx.POST("/redeem", mw, api.Redeem)
		tx.POST("/redeem/", mw, api.Redeem)
	}
	ref := router.Group("/ref").Use(middleware.Auth())
	{
		ref.POST("", mw, api.CreateReferral)
		ref.POST("/", mw, api.CreateReferral)
	}
	proposal := router.Group("/proposal/").Use(middleware.Auth())
	{
		proposal.POST("/render", mw, api.RenderProposal)
		proposal.POST("/render/", mw, api.RenderProposal)
		proposal.POST("/export", mw, api.ExportProposal)
		proposal.POST("/export/", mw, api.ExportProposal)
	}
	analysis := router.Group("/analysis").Use(middleware.Auth())
	{
		analysis.POST("", mw, api.CreateAnalysis)
		analysis.POST("/", mw, api.CreateAnalysis)
		analysis.GET("/:id", mw, api.GetAnalysis)
		analysis.GET("/:id/", mw, api.GetAnalysis)
	}
	router.POST("/contact", mw, api.Contact)
	router.POST("/contact/", mw, api.Contact)
	port := GlobalConfig.Port
	fmt.Println("[ NCS Backend is up and listening to :" + port + " ]")
	if err := router.Run(":" + port); err != nil {
		Logger.Error("Failed to run NCS Backend on :" + port + ": " + err.Error())
		os.Exit(1)
	}
}

func wsHandler(c *gin.Context) {
	// Extract token from query
	token := c.DefaultQuery("token", "")
	user := ncsapi.User{}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	userId, email, err := jwt.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	// Upgrade Connection
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		Logger.Error("Failed to set websocket upgrade: " + err.Error())
		return
	}
	defer conn.Close()
	// Find User
	app := c.MustGet("app").(*ncsapi.App)
	ncsapi.RefreshConfig(c, app.Rdb)
	// The pong handler runs on the reader goroutine, the staleness check on
	// the writer loop, so the timestamp is atomic
	pong := newPongClock()
	conn.SetPongHandler(func(string) error {
		pong.beat()
		return nil
	})
	pingPeriod := 3 * time.Second
	timeout := 9 * time.Second
	var mu sync.Mutex // Mutex to synchronize writes to the WebSocket connection
	res := app.Db.Where(
		"id = ? AND email = ?",
		userId,
		email,
	).First(&user)
	if res.RowsAffected != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	jsonData := ncsapi.SyncUserStats(app.Rdb, app.Db, user)
	if jsonData != nil {
		// Send the serialized JSON data over the WebSocket
		if err := conn.WriteMessage(websocket.TextMessage, jsonData); err != nil {
			fmt.Println("Socket: Failed to send data:", err)
			return
		}
	}
	if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		fmt.Println("Socket: Failed to send ping:", err)
		_ = conn.Close()
		return
	}
	go func() {
		pubsub := app.Rdb.Subscribe(c, fmt.Sprintf("notification_ch@%d", user.Id))
		defer pubsub.Close()

		ch := pubsub.Channel()
		for msg := range ch {
			var msgDecoded ncsapi.WsResponseData
			err = json.Unmarshal([]byte(msg.Payload), &msgDecoded)
			if err == nil {
				// Cache until the client acknowledges delivery
				_ = app.Rdb.Set(context.Background(), fmt.Sprintf("notification_cache@%d:%d", user.Id, msgDecoded.Data.Id), msg.Payload, 1*time.Hour).Err()
			}
			mu.Lock()
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				Logger.Error("Socket: Failed to send ping: " + err.Error())
				mu.Unlock()
				_ = conn.Close()
				return
			}
			mu.Unlock()
		}
	}()
	// Start listening for commands via ws
	go func() {
		defer conn.Close()

		for {
			messageType, p, err := conn.ReadMessage()
			if err != nil {
				return
			}
			// Handle the received message
			switch messageType {
			case websocket.TextMessage:
				message := string(p)
				// Check if the message is an acknowledgment
				var ackMsg struct {
					Type string `json:"type"`
					Id   int    `json:"id"`
				}
				if err := json.Unmarshal([]byte(message), &ackMsg); err == nil {
					if ackMsg.Type == "ack" {
						// Remove the acknowledged message from Redis
						_, err := app.Rdb.Del(context.Background(), fmt.Sprintf("notification_cache@%d:%d", user.Id, ackMsg.Id)).Result()
						if err != nil {
							fmt.Println("failed to delete acknowledged message from Redis:", err)
						}
						continue // Skip further processing since it's an ack message
					}
				}
				if message == "sync" {
					_ = app.Db.Where(
						"id = ? AND email = ?",
						userId,
						email,
					).First(&user)
					jsonData := ncsapi.SyncUserStats(app.Rdb, app.Db, user)
					if jsonData != nil {
						// Send the serialized JSON data over the WebSocket
						mu.Lock()
						if err := conn.WriteMessage(websocket.TextMessage, jsonData); err != nil {
							fmt.Println("Socket: Failed to send data:", err)
							mu.Unlock()
							return
						}
						mu.Unlock()
					}
				}
			default:
				fmt.Println("Socket: Unhandled message type:", messageType)
			}
		}
	}()
	for {
		// We process all the cached notifications
		iter := app.Rdb.Scan(context.Background(), 0, fmt.Sprintf("notification_cache@%d:*", user.Id), 0).Iterator()
		for iter.Next(context.Background()) {
			lastNotification, _ := app.Rdb.Get(context.Background(), iter.Val()).Result()
			if len(lastNotification) > 0 {
				mu.Lock()
				if err := conn.WriteMessage(websocket.TextMessage, []byte(lastNotification)); err != nil {
					Logger.Error("Socket: Failed to send data: " + err.Error())
					mu.Unlock()
					_ = conn.Close()
					return
				}
				mu.Unlock()
			}
		}
		if pong.stale(timeout) {
			Logger.Warn("Socket: Client did not respond to ping, closing connection")
			return
		}
		mu.Lock()
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			mu.Unlock()
			return
		}
		mu.Unlock()
		time.Sleep(pingPeriod)
	}
}
