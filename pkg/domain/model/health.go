package model

// HealthMessage is the body returned by the health check endpoint
const HealthMessage = "I'm ok"
