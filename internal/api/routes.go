package api

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.WorkerInfo)
	s.router.GET("/health", s.healthHandler.HealthCheck)
	s.router.GET("/metrics", s.healthHandler.Metrics)

	session := s.router.Group("/session")
	{
		session.GET("", s.sessionHandler.GetStatus)
		session.POST("/start", s.sessionHandler.Start)
		session.POST("/stop", s.sessionHandler.Stop)
		session.POST("/source", s.sessionHandler.SetSource)
	}

	policy := s.router.Group("/policy")
	{
		policy.GET("", s.policyHandler.GetPolicy)
		policy.PUT("/:class/threshold", s.policyHandler.SetThreshold)
		policy.PUT("/:class/enabled", s.policyHandler.SetEnabled)
	}

	stream := s.router.Group("/stream")
	{
		stream.GET("/mjpeg", s.streamHandler.MJPEG)
	}

	s.router.GET("/ws/alerts", s.streamHandler.AlertsWebSocket)
}
