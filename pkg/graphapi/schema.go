// Package graphapi exposes roster operations as a GraphQL schema.
package graphapi

import (
	"fmt"
	"strconv"

	"github.com/graphql-go/graphql"

	"github.com/Alarion239/studentrecords/models/common"
	"github.com/Alarion239/studentrecords/models/records"
	"github.com/Alarion239/studentrecords/pkg/apperr"
	"github.com/Alarion239/studentrecords/pkg/roster"
)

var studentType = graphql.NewObject(graphql.ObjectConfig{
	Name: "StudentList",
	Fields: graphql.Fields{
		"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"roll_no":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"name":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"classSection": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"mark":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var roleEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "UserRole",
	Values: graphql.EnumValueConfigMap{
		string(common.RoleStudent): &graphql.EnumValueConfig{Value: string(common.RoleStudent)},
		string(common.RoleTeacher): &graphql.EnumValueConfig{Value: string(common.RoleTeacher)},
	},
})

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":  &graphql.Field{Type: graphql.String},
		"email": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"role":  &graphql.Field{Type: graphql.NewNonNull(roleEnum)},
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":  &graphql.Field{Type: graphql.String},
		"email": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"role":  &graphql.Field{Type: graphql.NewNonNull(roleEnum)},
		"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var deletionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DeletionResponse",
	Fields: graphql.Fields{
		"message": &graphql.Field{Type: graphql.String},
	},
})

// NewSchema builds the schema with resolvers bound to svc.
func NewSchema(svc *roster.Service) (graphql.Schema, error) {
	r := &resolver{svc: svc}

	signIn := &graphql.Field{
		Type: authPayloadType,
		Args: graphql.FieldConfigArgument{
			"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		},
		Resolve: r.signIn,
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"students": &graphql.Field{
				Type:    graphql.NewList(studentType),
				Resolve: r.students,
			},
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.user,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"addNewRow": &graphql.Field{
				Type: studentType,
				Args: graphql.FieldConfigArgument{
					"roll_no":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"name":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"classSection": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"mark":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.addNewRow,
			},
			"updateRow": &graphql.Field{
				Type: studentType,
				Args: graphql.FieldConfigArgument{
					"id":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"roll_no":      &graphql.ArgumentConfig{Type: graphql.String},
					"name":         &graphql.ArgumentConfig{Type: graphql.String},
					"classSection": &graphql.ArgumentConfig{Type: graphql.String},
					"mark":         &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.updateRow,
			},
			"deleteRow": &graphql.Field{
				Type: deletionType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.deleteRow,
			},
			"signup": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"name":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"role":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(roleEnum)},
				},
				Resolve: r.signup,
			},
			"signIn": signIn,
			"login":  signIn,
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

type resolver struct {
	svc *roster.Service
}

func (r *resolver) students(p graphql.ResolveParams) (interface{}, error) {
	students, err := r.svc.Students(p.Context)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(students))
	for _, s := range students {
		out = append(out, studentResult(s))
	}
	return out, nil
}

func (r *resolver) addNewRow(p graphql.ResolveParams) (interface{}, error) {
	student, err := r.svc.AddNewRow(p.Context, records.StudentFields{
		RollNo:       stringArg(p, "roll_no"),
		Name:         stringArg(p, "name"),
		ClassSection: stringArg(p, "classSection"),
		Mark:         stringArg(p, "mark"),
	})
	if err != nil {
		return nil, err
	}
	return studentResult(student), nil
}

func (r *resolver) updateRow(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p, roster.OpUpdateRow)
	if err != nil {
		return nil, err
	}

	student, err := r.svc.UpdateRow(p.Context, id, records.StudentPatch{
		RollNo:       optionalStringArg(p, "roll_no"),
		Name:         optionalStringArg(p, "name"),
		ClassSection: optionalStringArg(p, "classSection"),
		Mark:         optionalStringArg(p, "mark"),
	})
	if err != nil {
		return nil, err
	}
	return studentResult(student), nil
}

func (r *resolver) deleteRow(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p, roster.OpDeleteRow)
	if err != nil {
		return nil, err
	}

	res, err := r.svc.DeleteRow(p.Context, id)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"message": res.Message}, nil
}

func (r *resolver) signup(p graphql.ResolveParams) (interface{}, error) {
	res, err := r.svc.Signup(p.Context, roster.SignupInput{
		Name:     stringArg(p, "name"),
		Email:    stringArg(p, "email"),
		Password: stringArg(p, "password"),
		Role:     common.Role(stringArg(p, "role")),
	})
	if err != nil {
		return nil, err
	}
	return authResult(res), nil
}

func (r *resolver) signIn(p graphql.ResolveParams) (interface{}, error) {
	res, err := r.svc.SignIn(p.Context, stringArg(p, "email"), stringArg(p, "password"))
	if err != nil {
		return nil, err
	}
	return authResult(res), nil
}

func (r *resolver) user(p graphql.ResolveParams) (interface{}, error) {
	acc, err := r.svc.User(p.Context, stringArg(p, "email"))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"id":    formatID(acc.ID),
		"name":  acc.Name,
		"email": acc.Email,
		"role":  string(acc.Role),
	}, nil
}

func studentResult(s records.Student) map[string]interface{} {
	return map[string]interface{}{
		"id":           formatID(s.ID),
		"roll_no":      s.RollNo,
		"name":         s.Name,
		"classSection": s.ClassSection,
		"mark":         s.Mark,
	}
}

func authResult(res roster.AuthResult) map[string]interface{} {
	out := map[string]interface{}{
		"id":    formatID(res.ID),
		"email": res.Email,
		"role":  string(res.Role),
		"token": res.Token,
	}
	if res.Name != "" {
		out["name"] = res.Name
	}
	return out
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

// optionalStringArg is nil when the argument was omitted or null.
func optionalStringArg(p graphql.ResolveParams, name string) *string {
	s, ok := p.Args[name].(string)
	if !ok {
		return nil
	}
	return &s
}

func idArg(p graphql.ResolveParams, op string) (int64, error) {
	raw := fmt.Sprint(p.Args["id"])
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.E(op, apperr.Validation, fmt.Errorf("invalid id %q", raw))
	}
	return id, nil
}
