// Package config provides configuration loading for the user form server.
//
// Configuration is resolved in three layers, later layers winning:
//
//  1. built-in defaults (New)
//  2. an optional file, userform.json or userform.yaml
//  3. USERFORM_* environment variables
//
// The result is validated before use.
//
// # Configuration File Structure
//
//	{
//	  "addr": ":8080",
//	  "endpoint": "https://pokeapi.co/api/v2/pokemon/",
//	  "staleTime": "0s",
//	  "fetchTimeout": "10s",
//	  "redisAddr": "127.0.0.1:6379",
//	  "cacheTTL": "10m",
//	  "logLevel": "info",
//	  "logFormat": "text",
//	  "rateLimit": 120,
//	  "metricsPath": "/metrics"
//	}
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Addr:", cfg.Addr)
package config
