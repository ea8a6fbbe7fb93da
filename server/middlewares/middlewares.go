package middlewares

import (
	"context"
	"log"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/gin-gonic/gin"
)

var (
	// cognitoClient is a thread safe client that performs user authorization
	// based on jwt token. Before using this client, make sure it's initialized
	// correctly.
	cognitoClient *cognitoidentityprovider.Client
)

// Setup initializes all package scoped variables that are needed to perform
// middleware functionalities, such as the Cognito client. This function must
// be called before JWT() is used.
func Setup() {
	client, err := createCognitoClient()
	if err != nil {
		// Abort directly if Cognito isn't set up successfully, which is crucial
		// for server side authorization.
		log.Fatalf("fail to setup Cognito client: %s", err.Error())
	}
	cognitoClient = client
}

// createCognitoClient creates a default client with aws config located in
// path ~/.aws/config, and returns error on error.
func createCognitoClient() (*cognitoidentityprovider.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, err
	}
	return cognitoidentityprovider.NewFromConfig(cfg), nil
}

// JWT fetches the user jwt from the "token" query field, resolves it to a
// user through the identity service and stores the user's id in the "sub"
// header. Handlers downstream trust "sub" and do no further authorization.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		jwt := c.Query("token")

		if jwt == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "empty jwt token",
				"error":   "",
			})
			c.Abort()
			return
		}

		user, err := cognitoClient.GetUser(context.TODO(), &cognitoidentityprovider.GetUserInput{AccessToken: &jwt})
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "invalid or expired token",
				"error":   err.Error(),
			})
			c.Abort()
			return
		}

		// Successfully validated the jwt token, replace the header field
		// "token" with the user's sub (id).
		c.Request.Header.Del("token")
		c.Request.Header.Set("sub", *user.Username)

		c.Next()
	}
}

// Bypass trusts the incoming "sub" header as-is, filling in a fixed dev
// user when absent. Only wired behind the -bypass_auth flag.
func Bypass() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Header.Get("sub") == "" {
			c.Request.Header.Set("sub", "dev_user")
		}
		c.Next()
	}
}
