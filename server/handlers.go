package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// getUpgrader returns a WebSocket upgrader configured to allow all origins
func getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // Allow all origins in development
		},
	}
}

// handleLive upgrades the connection and attaches the client to the gateway
func (g *Gateway) handleLive(c *gin.Context) {
	upgrader := getUpgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := newClient(conn)
	g.registry.Register(client)

	go client.writePump()
	go client.readPump(g)
}

// handleRoot is the liveness probe
func (g *Gateway) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "NVR WebSocket Server is running",
	})
}

// handleHealth reports live session counts from all three managers
func (g *Gateway) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "healthy",
		"active_connections": g.registry.Count(),
		"active_streams":     g.streams.Count(),
		"active_recordings":  g.recordings.Count(),
	})
}

// newRouter wires the websocket endpoint and the two probe endpoints
func newRouter(g *Gateway) *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.GET("/", g.handleRoot)
	r.GET("/health", g.handleHealth)
	r.GET("/ws/live", g.handleLive)

	return r
}
