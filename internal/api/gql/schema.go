// Package gql exposes the account and post operations as a GraphQL schema.
// Resolvers call the same services as the REST handlers; failures travel in
// the GraphQL errors array with the same caller-safe messages.
package gql

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"minisocial/internal/app/service"
	"minisocial/internal/common"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
)

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.Int},
		"username": &graphql.Field{Type: graphql.String},
		"email":    &graphql.Field{Type: graphql.String},
	},
})

var postType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Post",
	Fields: graphql.Fields{
		"id":      &graphql.Field{Type: graphql.Int},
		"userId":  &graphql.Field{Type: graphql.Int},
		"content": &graphql.Field{Type: graphql.String},
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"token": &graphql.Field{Type: graphql.String},
	},
})

type resolver struct {
	auth   *service.AuthService
	posts  *service.PostService
	logger *slog.Logger
}

// NewSchema builds the schema backed by the given services.
func NewSchema(auth *service.AuthService, posts *service.PostService, logger *slog.Logger) (graphql.Schema, error) {
	r := &resolver{auth: auth, posts: posts, logger: logger}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"users": &graphql.Field{
				Type:    graphql.NewList(userType),
				Resolve: r.users,
			},
			"posts": &graphql.Field{
				Type: graphql.NewList(postType),
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.postsByUser,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"signup": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.signup,
			},
			"login": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.login,
			},
			"addPost": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"userId":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"content": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.addPost,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

// NewHandler serves the schema over HTTP with the GraphiQL explorer enabled.
func NewHandler(schema *graphql.Schema) http.Handler {
	return handler.New(&handler.Config{
		Schema:   schema,
		Pretty:   true,
		GraphiQL: true,
	})
}

func (r *resolver) users(p graphql.ResolveParams) (interface{}, error) {
	users, err := r.auth.ListUsers(p.Context)
	if err != nil {
		return nil, r.fail(p.Context, "users", err)
	}
	return users, nil
}

func (r *resolver) postsByUser(p graphql.ResolveParams) (interface{}, error) {
	userID, _ := p.Args["userId"].(int)
	posts, err := r.posts.ListPosts(p.Context, int64(userID))
	if err != nil {
		return nil, r.fail(p.Context, "posts", err)
	}
	return posts, nil
}

func (r *resolver) signup(p graphql.ResolveParams) (interface{}, error) {
	req := service.SignupRequest{
		Username: stringArg(p, "username"),
		Email:    stringArg(p, "email"),
		Password: stringArg(p, "password"),
	}
	msg, err := r.auth.Signup(p.Context, req)
	if err != nil {
		return nil, r.fail(p.Context, "signup", err)
	}
	return msg, nil
}

func (r *resolver) login(p graphql.ResolveParams) (interface{}, error) {
	req := service.LoginRequest{
		Email:    stringArg(p, "email"),
		Password: stringArg(p, "password"),
	}
	res, err := r.auth.Login(p.Context, req)
	if err != nil {
		return nil, r.fail(p.Context, "login", err)
	}
	return res, nil
}

func (r *resolver) addPost(p graphql.ResolveParams) (interface{}, error) {
	userID, _ := p.Args["userId"].(int)
	req := service.AddPostRequest{
		UserID:  int64(userID),
		Content: stringArg(p, "content"),
	}
	msg, err := r.posts.AddPost(p.Context, req)
	if err != nil {
		return nil, r.fail(p.Context, "addPost", err)
	}
	return msg, nil
}

// fail logs err and replaces it with its public message.
func (r *resolver) fail(ctx context.Context, field string, err error) error {
	if common.HTTPStatusFromError(err) >= http.StatusInternalServerError {
		r.logger.ErrorContext(ctx, "graphql resolver failed", slog.String("field", field), slog.Any("error", err))
	}
	return errors.New(common.PublicMessage(err))
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}
