package router

import (
	"fmt"
	"net/http"
)

func registerSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.HandleFunc("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Wallet API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Wallet API",
    "version": "1.0.0"
  },
  "paths": {
    "/api/wallet/register": {
      "post": {
        "summary": "Register a user with a fresh account number",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/RegisterRequest"
              }
            }
          }
        },
        "responses": {
          "200": {
            "description": "Registration Successful"
          },
          "400": {
            "description": "Validation failed or Registration Failed"
          },
          "409": {
            "description": "Username already exist"
          }
        }
      }
    },
    "/api/wallet/deposit": {
      "post": {
        "summary": "Deposit funds into an account",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/DepositRequest"
              }
            }
          }
        },
        "responses": {
          "200": {
            "description": "Transaction Successful"
          },
          "400": {
            "description": "Transaction Failed"
          },
          "409": {
            "description": "Account Number does not exist"
          }
        }
      }
    },
    "/api/wallet/withdraw": {
      "post": {
        "summary": "Withdraw funds from an account",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/WithdrawRequest"
              }
            }
          }
        },
        "responses": {
          "200": {
            "description": "Transaction Successful"
          },
          "400": {
            "description": "Balance Insufficient, Transaction Failed or Deadlock"
          },
          "409": {
            "description": "Account Number does not exist"
          }
        }
      }
    },
    "/api/wallet/transfer": {
      "post": {
        "summary": "Transfer funds between two accounts",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/TransferRequest"
              }
            }
          }
        },
        "responses": {
          "200": {
            "description": "Transaction Successful"
          },
          "400": {
            "description": "Balance Insufficient, Transaction Failed or Deadlock"
          },
          "409": {
            "description": "Account Number does not exist"
          }
        }
      }
    },
    "/api/wallet/users": {
      "get": {
        "summary": "List users",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "Users fetched successfully"
          }
        }
      }
    },
    "/api/wallet/users/{accountNumber}": {
      "get": {
        "summary": "Get a user by account number",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "accountNumber",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "User fetched successfully"
          },
          "400": {
            "description": "Account Number does not exist"
          }
        }
      }
    },
    "/api/wallet/transactions": {
      "get": {
        "summary": "List transactions",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "Transactions fetched successfully"
          }
        }
      }
    },
    "/api/wallet/transactions/{accountNumber}": {
      "get": {
        "summary": "List transactions touching an account",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "accountNumber",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "Transactions fetched successfully"
          },
          "400": {
            "description": "Account Number does not exist"
          }
        }
      }
    }
  },
  "components": {
    "securitySchemes": {
      "BasicAuth": {
        "type": "http",
        "scheme": "basic"
      }
    },
    "schemas": {
      "RegisterRequest": {
        "type": "object",
        "required": ["username", "password"],
        "properties": {
          "username": { "type": "string" },
          "firstName": { "type": "string" },
          "lastName": { "type": "string" },
          "password": { "type": "string" }
        }
      },
      "DepositRequest": {
        "type": "object",
        "required": ["accountNumber", "amount"],
        "properties": {
          "accountNumber": { "type": "string", "example": "123456789012" },
          "amount": { "type": "string", "example": "100.00" }
        }
      },
      "WithdrawRequest": {
        "type": "object",
        "required": ["accountNumber", "amount"],
        "properties": {
          "accountNumber": { "type": "string", "example": "123456789012" },
          "amount": { "type": "string", "example": "50.00" }
        }
      },
      "TransferRequest": {
        "type": "object",
        "required": ["accountNumberFrom", "accountNumberTo", "amount"],
        "properties": {
          "accountNumberFrom": { "type": "string", "example": "123456789012" },
          "accountNumberTo": { "type": "string", "example": "210987654321" },
          "amount": { "type": "string", "example": "25.00" }
        }
      }
    }
  }
}`
