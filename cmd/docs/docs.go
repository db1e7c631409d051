// Package docs registers the Swagger document for the wallet API.
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
        "/identity": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["identity"],
                "summary": "Get the signed-in identity",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.IdentityResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "Wallet belongs to another user", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Replaces the whole identity. The uid must match the token subject. The saved wallet of the user is loaded in the same step.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["identity"],
                "summary": "Sign in",
                "parameters": [
                    {"description": "Identity", "name": "identity", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SetIdentityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.IdentityResponse"}},
                    "400": {"description": "Invalid input format or validation error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "uid does not match the token", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Saved wallet could not be loaded", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Restores the anonymous placeholder identity",
                "tags": ["identity"],
                "summary": "Sign out",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "Wallet belongs to another user", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/identity/email": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["identity"],
                "summary": "Change the identity email",
                "parameters": [
                    {"description": "New email", "name": "email", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SetIdentityEmailRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.IdentityResponse"}},
                    "400": {"description": "Invalid input format or validation error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "Wallet belongs to another user", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/wallet": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the identity, both accounts and the rate table",
                "produces": ["application/json"],
                "tags": ["wallet"],
                "summary": "Get the wallet",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.WalletResponse"}},
                    "500": {"description": "Failed to read wallet", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "Wallet belongs to another user", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/wallet/totals": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the total balance in USD and the USD balance of every account type",
                "produces": ["application/json"],
                "tags": ["wallet"],
                "summary": "Get USD totals",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TotalsResponse"}},
                    "403": {"description": "Wallet belongs to another user", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/wallet/refresh": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Refreshes rates, balances and histories. Remote failures keep the previous values and are not reported.",
                "produces": ["application/json"],
                "tags": ["wallet"],
                "summary": "Refresh the whole wallet",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/dto.WalletResponse"}},
                    "403": {"description": "Wallet belongs to another user", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/wallet/rates/refresh": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Fetches the current BTC price. A missing or invalid price keeps the previous rate.",
                "produces": ["application/json"],
                "tags": ["wallet"],
                "summary": "Refresh the rate table",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/dto.WalletResponse"}},
                    "403": {"description": "Wallet belongs to another user", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/wallet/accounts/{type}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Retrieves the account of the given type (Checking or Bitcoin)",
                "produces": ["application/json"],
                "tags": ["wallet"],
                "summary": "Get an account by type",
                "parameters": [{"type": "string", "description": "Account type", "name": "type", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AccountResponse"}},
                    "400": {"description": "Unknown account type", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Account not found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "Wallet belongs to another user", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/wallet/accounts/{type}/refresh": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Refreshes the balance and the transaction history of the account in parallel",
                "produces": ["application/json"],
                "tags": ["wallet"],
                "summary": "Refresh one account",
                "parameters": [{"type": "string", "description": "Account type", "name": "type", "in": "path", "required": true}],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/dto.WalletResponse"}},
                    "400": {"description": "Unknown account type", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "Wallet belongs to another user", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/wallet/accounts/{type}/reset": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Empties the history and zeroes the balance. Only the Checking account supports it.",
                "produces": ["application/json"],
                "tags": ["wallet"],
                "summary": "Reset an account",
                "parameters": [{"type": "string", "description": "Account type", "name": "type", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.WalletResponse"}},
                    "400": {"description": "Unknown account type", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Account type cannot be reset", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "Wallet belongs to another user", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "dto.AccountResponse": {
            "type": "object",
            "properties": {
                "balance": {"type": "number"},
                "balanceDisplay": {"type": "string"},
                "balanceInUSD": {"type": "number"},
                "currency": {"type": "string"},
                "transactions": {"type": "array", "items": {"$ref": "#/definitions/dto.TransactionResponse"}},
                "type": {"type": "string"},
                "usdDisplay": {"type": "string"}
            }
        },
        "dto.IdentityResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "emailVerified": {"type": "boolean"},
                "isAnonymous": {"type": "boolean"},
                "uid": {"type": "string"}
            }
        },
        "dto.RatesResponse": {
            "type": "object",
            "properties": {
                "BTC": {"type": "number"},
                "USD": {"type": "number"}
            }
        },
        "dto.SetIdentityEmailRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string"}
            }
        },
        "dto.SetIdentityRequest": {
            "type": "object",
            "required": ["uid"],
            "properties": {
                "email": {"type": "string"},
                "emailVerified": {"type": "boolean"},
                "isAnonymous": {"type": "boolean"},
                "uid": {"type": "string"}
            }
        },
        "dto.TotalsResponse": {
            "type": "object",
            "properties": {
                "balancesByAccountType": {"type": "object", "additionalProperties": {"type": "number"}},
                "totalBalanceInUSD": {"type": "number"},
                "totalDisplay": {"type": "string"}
            }
        },
        "dto.TransactionResponse": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "cashback": {"type": "number"},
                "date": {"type": "string"},
                "icon": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "dto.WalletResponse": {
            "type": "object",
            "properties": {
                "accounts": {"type": "array", "items": {"$ref": "#/definitions/dto.AccountResponse"}},
                "identity": {"$ref": "#/definitions/dto.IdentityResponse"},
                "rates": {"$ref": "#/definitions/dto.RatesResponse"},
                "takenAt": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Wallet Ledger API",
	Description:      "Wallet ledger store: identity, Checking and Bitcoin accounts, USD views.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
