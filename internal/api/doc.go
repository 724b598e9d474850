// Package api serves the backup dashboard over HTTP.
//
//	@title						Backup Dashboard API
//	@version					1.0
//	@description				Read access to backup monitoring data
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package api
