package main

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type signupRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8,max=72"`
	Username string  `json:"username"`
	Info     string  `json:"info"`
	Age      flexInt `json:"age" binding:"required,min=1"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type getUserIDRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type findAllRequest struct {
	Value string `json:"value"`
}

type friendRequest struct {
	ID         string `json:"id" binding:"required"`
	Friendname string `json:"friendname" binding:"required,email"`
}

type membersRequest struct {
	MembersID []string `json:"membersId" binding:"required,len=2"`
}

type createMessageRequest struct {
	From    string `json:"from" binding:"required"`
	To      string `json:"to" binding:"required"`
	Message string `json:"message"`
}

// flexInt accepts a JSON number or a numeric string; form inputs on the web
// client post numbers as strings.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*n = flexInt(v)
		return nil
	}

	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = flexInt(v)
	return nil
}
