package domain

import "fmt"

type Airport struct {
	ID             int64
	Name           string
	ClosestBigCity string
}

type Route struct {
	ID          int64
	Source      Airport
	Destination Airport
	Distance    int
}

func (r Route) String() string {
	return r.Source.Name + " - " + r.Destination.Name
}

type AirplaneType struct {
	ID   int64
	Name string
}

type Airplane struct {
	ID         int64
	Name       string
	Rows       int
	SeatsInRow int
	Type       AirplaneType
}

func (a Airplane) Capacity() int {
	return a.Rows * a.SeatsInRow
}

type Crew struct {
	ID        int64
	FirstName string
	LastName  string
}

func (c Crew) FullName() string {
	return fmt.Sprintf("%s %s", c.FirstName, c.LastName)
}
