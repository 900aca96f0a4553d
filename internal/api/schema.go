package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/graphql-go/graphql"

	"github.com/nerrad567/birchhill-core/internal/metrics"
	"github.com/nerrad567/birchhill-core/internal/paging"
	"github.com/nerrad567/birchhill-core/internal/reading"
	"github.com/nerrad567/birchhill-core/internal/resolver"
	"github.com/nerrad567/birchhill-core/internal/room"
)

// Resolver is the query/mutation surface the schema dispatches to.
type Resolver interface {
	Room(ctx context.Context, id string) (*room.Room, error)
	Rooms(ctx context.Context, args paging.Args) (paging.Page[room.Room], error)
	TemperatureReadings(ctx context.Context, roomID string, args paging.Args) (paging.Page[reading.TemperatureReading], error)
	CreateRoom(ctx context.Context, name string) resolver.RoomPayload
	UpdateRoom(ctx context.Context, id, name string) resolver.RoomPayload
	Node(ctx context.Context, globalID string) (any, error)
	Nodes(ctx context.Context, globalIDs []string) ([]any, error)
}

// connection is the value behind every *Connection type.
type connection struct {
	edges    []edge
	pageInfo paging.PageInfo
}

type edge struct {
	cursor string
	node   any
}

// mutationResult is the value behind RoomPayload types.
type mutationResult struct {
	payload          resolver.RoomPayload
	clientMutationID any
}

func toConnection[T any](page paging.Page[T]) connection {
	edges := make([]edge, len(page.Edges))
	for i := range page.Edges {
		edges[i] = edge{cursor: page.Edges[i].Cursor, node: &page.Edges[i].Node}
	}
	return connection{edges: edges, pageInfo: page.PageInfo}
}

// NewSchema builds the GraphQL schema. The result is immutable and shared by
// every request.
func NewSchema(res Resolver) (graphql.Schema, error) {
	var roomType, readingType *graphql.Object

	nodeInterface := graphql.NewInterface(graphql.InterfaceConfig{
		Name:        "Node",
		Description: "An object with an ID.",
		Fields: graphql.Fields{
			"id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		},
		ResolveType: func(p graphql.ResolveTypeParams) *graphql.Object {
			switch p.Value.(type) {
			case *room.Room:
				return roomType
			case *reading.TemperatureReading:
				return readingType
			}
			return nil
		},
	})

	roomType = graphql.NewObject(graphql.ObjectConfig{
		Name:       "Room",
		Interfaces: []*graphql.Interface{nodeInterface},
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return strconv.FormatInt(p.Source.(*room.Room).ID, 10), nil
				},
			},
			"name": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*room.Room).Name, nil
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.DateTime),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*room.Room).CreatedAt, nil
				},
			},
			"updatedAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.DateTime),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*room.Room).UpdatedAt, nil
				},
			},
		},
	})

	readingType = graphql.NewObject(graphql.ObjectConfig{
		Name:       "TemperatureReading",
		Interfaces: []*graphql.Interface{nodeInterface},
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return strconv.FormatInt(p.Source.(*reading.TemperatureReading).ID, 10), nil
				},
			},
			"temperature": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*reading.TemperatureReading).Temperature, nil
				},
			},
			"humidity": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*reading.TemperatureReading).Humidity, nil
				},
			},
			"recordedAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.DateTime),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*reading.TemperatureReading).RecordedAt, nil
				},
			},
		},
	})

	pageInfoType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "PageInfo",
		Description: "Information about pagination in a connection.",
		Fields: graphql.Fields{
			"hasNextPage": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(paging.PageInfo).HasNextPage, nil
				},
			},
			"hasPreviousPage": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(paging.PageInfo).HasPreviousPage, nil
				},
			},
			"startCursor": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return optionalCursor(p.Source.(paging.PageInfo).StartCursor), nil
				},
			},
			"endCursor": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return optionalCursor(p.Source.(paging.PageInfo).EndCursor), nil
				},
			},
		},
	})

	roomConnection := connectionType("Room", roomType, pageInfoType)
	readingConnection := connectionType("TemperatureReading", readingType, pageInfoType)

	pagingArgs := graphql.FieldConfigArgument{
		"first": &graphql.ArgumentConfig{Type: graphql.Int},
		"after": &graphql.ArgumentConfig{Type: graphql.String},
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"node": &graphql.Field{
				Type:        nodeInterface,
				Description: "Fetches an object given its ID.",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID), Description: "ID of the object."},
				},
				Resolve: instrument("node", func(p graphql.ResolveParams) (any, error) {
					return res.Node(p.Context, idArg(p.Args["id"]))
				}),
			},
			"nodes": &graphql.Field{
				Type:        graphql.NewList(nodeInterface),
				Description: "Fetches a list of objects given a list of IDs.",
				Args: graphql.FieldConfigArgument{
					"ids": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID))),
						Description: "IDs of the objects.",
					},
				},
				Resolve: instrument("nodes", func(p graphql.ResolveParams) (any, error) {
					raw, _ := p.Args["ids"].([]any)
					ids := make([]string, len(raw))
					for i, v := range raw {
						ids[i] = idArg(v)
					}
					return res.Nodes(p.Context, ids)
				}),
			},
			"room": &graphql.Field{
				Type:        roomType,
				Description: "Room",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: instrument("room", func(p graphql.ResolveParams) (any, error) {
					rm, err := res.Room(p.Context, idArg(p.Args["id"]))
					if err != nil {
						return nil, err
					}
					return rm, nil
				}),
			},
			"rooms": &graphql.Field{
				Type: graphql.NewNonNull(roomConnection),
				Args: pagingArgs,
				Resolve: instrument("rooms", func(p graphql.ResolveParams) (any, error) {
					page, err := res.Rooms(p.Context, pagingArgsFrom(p.Args))
					if err != nil {
						return nil, err
					}
					return toConnection(page), nil
				}),
			},
			"temperatureReadings": &graphql.Field{
				Type: graphql.NewNonNull(readingConnection),
				Args: graphql.FieldConfigArgument{
					"roomId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"first":  &graphql.ArgumentConfig{Type: graphql.Int},
					"after":  &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: instrument("temperatureReadings", func(p graphql.ResolveParams) (any, error) {
					page, err := res.TemperatureReadings(p.Context, idArg(p.Args["roomId"]), pagingArgsFrom(p.Args))
					if err != nil {
						return nil, err
					}
					return toConnection(page), nil
				}),
			},
		},
	})

	createPayload := roomPayloadType("CreateRoomPayload", roomType)
	updatePayload := roomPayloadType("UpdateRoomPayload", roomType)

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createRoom": &graphql.Field{
				Type: createPayload,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewInputObject(graphql.InputObjectConfig{
						Name: "CreateRoomInput",
						Fields: graphql.InputObjectConfigFieldMap{
							"name":             &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
							"clientMutationId": &graphql.InputObjectFieldConfig{Type: graphql.String},
						},
					}))},
				},
				Resolve: instrumentMutation("createRoom", func(p graphql.ResolveParams) mutationResult {
					input, _ := p.Args["input"].(map[string]any)
					name, _ := input["name"].(string)
					return mutationResult{
						payload:          res.CreateRoom(p.Context, name),
						clientMutationID: input["clientMutationId"],
					}
				}),
			},
			"updateRoom": &graphql.Field{
				Type: updatePayload,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewInputObject(graphql.InputObjectConfig{
						Name: "UpdateRoomInput",
						Fields: graphql.InputObjectConfigFieldMap{
							"id":               &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
							"name":             &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
							"clientMutationId": &graphql.InputObjectFieldConfig{Type: graphql.String},
						},
					}))},
				},
				Resolve: instrumentMutation("updateRoom", func(p graphql.ResolveParams) mutationResult {
					input, _ := p.Args["input"].(map[string]any)
					name, _ := input["name"].(string)
					return mutationResult{
						payload:          res.UpdateRoom(p.Context, idArg(input["id"]), name),
						clientMutationID: input["clientMutationId"],
					}
				}),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
		Types:    []graphql.Type{roomType, readingType},
	})
}

// connectionType builds <name>Connection and <name>Edge for a node type.
func connectionType(name string, nodeType *graphql.Object, pageInfoType *graphql.Object) *graphql.Object {
	edgeType := graphql.NewObject(graphql.ObjectConfig{
		Name:        name + "Edge",
		Description: "An edge in a connection.",
		Fields: graphql.Fields{
			"cursor": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(edge).cursor, nil
				},
			},
			"node": &graphql.Field{
				Type: nodeType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(edge).node, nil
				},
			},
		},
	})

	return graphql.NewObject(graphql.ObjectConfig{
		Name:        name + "Connection",
		Description: "The connection type for " + name + ".",
		Fields: graphql.Fields{
			"edges": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(edgeType)),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(connection).edges, nil
				},
			},
			"nodes": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(nodeType)),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					edges := p.Source.(connection).edges
					nodes := make([]any, len(edges))
					for i, e := range edges {
						nodes[i] = e.node
					}
					return nodes, nil
				},
			},
			"pageInfo": &graphql.Field{
				Type: graphql.NewNonNull(pageInfoType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(connection).pageInfo, nil
				},
			},
		},
	})
}

// roomPayloadType builds the {room, errors, clientMutationId} payload object.
func roomPayloadType(name string, roomType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name,
		Fields: graphql.Fields{
			"room": &graphql.Field{
				Type: roomType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					rm := p.Source.(mutationResult).payload.Room
					if rm == nil {
						return nil, nil
					}
					return rm, nil
				},
			},
			"errors": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					errs := p.Source.(mutationResult).payload.Errors
					if errs == nil {
						errs = []string{}
					}
					return errs, nil
				},
			},
			"clientMutationId": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(mutationResult).clientMutationID, nil
				},
			},
		},
	})
}

// instrument counts a query field's outcome.
func instrument(operation string, fn graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		v, err := fn(p)
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeError
		}
		metrics.GraphQLOperations.WithLabelValues(operation, outcome).Inc()
		return v, err
	}
}

// instrumentMutation counts a mutation's outcome. Mutations report failures
// inline, so a payload with errors counts as rejected.
func instrumentMutation(operation string, fn func(graphql.ResolveParams) mutationResult) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		res := fn(p)
		outcome := metrics.OutcomeSuccess
		if len(res.payload.Errors) > 0 {
			outcome = metrics.OutcomeRejected
		}
		metrics.GraphQLOperations.WithLabelValues(operation, outcome).Inc()
		return res, nil
	}
}

// idArg normalises an ID argument. Clients may send IDs as JSON numbers.
func idArg(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func pagingArgsFrom(args map[string]any) paging.Args {
	var out paging.Args
	if first, ok := args["first"].(int); ok {
		out.First = &first
	}
	if after, ok := args["after"].(string); ok {
		out.After = &after
	}
	return out
}

func optionalCursor(c string) any {
	if c == "" {
		return nil
	}
	return c
}
