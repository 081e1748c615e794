// Package graph exposes the board service as a GraphQL schema.
package graph

import (
	"github.com/graphql-go/graphql"

	"messageboard/internal/models"
	"messageboard/internal/service"
)

// NewSchema builds the executable schema over svc. Scalar fields resolve off
// the model structs via their json tags; derived fields go through svc.
func NewSchema(svc *service.BoardService) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"creationDate": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"numberOfPosts": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, ok := userFromSource(p.Source)
					if !ok {
						return nil, nil
					}
					return svc.NumberOfPosts(user.ID)
				},
			},
		},
	})

	messageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Message",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"body":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"creationDate": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	// user and the sibling links reference messageType itself, so they are
	// attached after construction.
	messageType.AddFieldConfig("user", &graphql.Field{
		Type: graphql.NewNonNull(userType),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			msg, ok := messageFromSource(p.Source)
			if !ok {
				return nil, nil
			}
			return svc.UserForMessage(msg)
		},
	})
	messageType.AddFieldConfig("previousPostedMessage", &graphql.Field{
		Type: messageType,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			msg, ok := messageFromSource(p.Source)
			if !ok {
				return nil, nil
			}
			prev, _, err := svc.Neighbors(msg)
			if err != nil {
				return nil, err
			}
			if prev == nil {
				return nil, nil
			}
			return *prev, nil
		},
	})
	messageType.AddFieldConfig("nextPostedMessage", &graphql.Field{
		Type: messageType,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			msg, ok := messageFromSource(p.Source)
			if !ok {
				return nil, nil
			}
			_, next, err := svc.Neighbors(msg)
			if err != nil {
				return nil, err
			}
			if next == nil {
				return nil, nil
			}
			return *next, nil
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"listUsers": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.ListUsers()
				},
			},
			"listAllMessages": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(messageType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.ListAllMessages()
				},
			},
			"listMessagesForUser": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(messageType))),
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID, _ := p.Args["userId"].(string)
					return svc.ListMessagesForUser(userID)
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"name":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					name, _ := p.Args["name"].(string)
					email, _ := p.Args["email"].(string)
					return svc.CreateUser(name, email)
				},
			},
			"postMessage": &graphql.Field{
				Type: graphql.NewNonNull(messageType),
				Args: graphql.FieldConfigArgument{
					"userId":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"messageBody": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID, _ := p.Args["userId"].(string)
					body, _ := p.Args["messageBody"].(string)
					return svc.PostMessage(userID, body)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

func userFromSource(src interface{}) (models.User, bool) {
	switch u := src.(type) {
	case models.User:
		return u, true
	case *models.User:
		if u != nil {
			return *u, true
		}
	}
	return models.User{}, false
}

func messageFromSource(src interface{}) (models.Message, bool) {
	switch m := src.(type) {
	case models.Message:
		return m, true
	case *models.Message:
		if m != nil {
			return *m, true
		}
	}
	return models.Message{}, false
}
