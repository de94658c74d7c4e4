// Package docs registers the swagger document of the session API
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/session": {
            "get": {
                "description": "Returns the current session: account, ETH balance, chain id and loading flag",
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Get wallet session",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/model.SessionResponse"}
                    }
                }
            }
        },
        "/api/session/connect": {
            "post": {
                "description": "Requests account access from the wallet provider and loads balance and network",
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Connect wallet",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/model.SessionResponse"}
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {"$ref": "#/definitions/model.ErrorResponse"}
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {"$ref": "#/definitions/model.ErrorResponse"}
                    }
                }
            }
        },
        "/api/session/refresh": {
            "post": {
                "description": "Fetches balance and chain id again and returns the updated session",
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Refresh balance and network",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/model.SessionResponse"}
                    }
                }
            }
        },
        "/api/session/qr": {
            "get": {
                "description": "PNG QR code of the connected account address",
                "produces": ["image/png"],
                "tags": ["session"],
                "summary": "Account QR code",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Image size in pixels (default 256)",
                        "name": "size",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/model.ErrorResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "model.SessionResponse": {
            "type": "object",
            "properties": {
                "account": {"type": "string"},
                "balance": {"type": "string"},
                "balance_fiat": {"type": "string"},
                "connected": {"type": "boolean"},
                "currency": {"type": "string"},
                "id": {"type": "string"},
                "loading": {"type": "boolean"},
                "network": {"type": "integer"},
                "rate": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "webthree API",
	Description:      "Wallet session of the webthree site",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
