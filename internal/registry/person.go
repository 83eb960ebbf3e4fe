package registry

import (
	"fmt"
	"io"
)

// PersonInfo is the identity-free base field set shared by people in the
// registry. Students embed it; nothing stores a bare PersonInfo.
type PersonInfo struct {
	Name    string `json:"name" bson:"name"`
	Age     int    `json:"age" bson:"age"`
	Address string `json:"address" bson:"address"`
}

func (p PersonInfo) WriteInfo(w io.Writer) {
	fmt.Fprintf(w, "Name: %s\n", p.Name)
	fmt.Fprintf(w, "Age: %d\n", p.Age)
	fmt.Fprintf(w, "Address: %s\n", p.Address)
}
