package roster

// Field names follow the wire contract the frontend already speaks
// (GroupID/GroupName/Email capitalized, unlike the rest of the API).

type Group struct {
	GroupID    string `json:"GroupID"`
	GroupName  string `json:"GroupName"`
	StaffEmail string `json:"staff_email"`
}

type GroupStudent struct {
	GroupID    string `json:"GroupID"`
	Name       string `json:"Name"`
	Year       string `json:"Year"`
	Email      string `json:"Email"`
	Department string `json:"Department"`
}

// Membership is a student's group row joined with the group's display name.
type Membership struct {
	GroupID    string
	GroupName  string
	Year       string
	Department string
}

// StudentDetail is the fallback source of Year/Department for students who
// belong to no group, and the mentor→mentee mapping.
type StudentDetail struct {
	Email      string            `json:"Email"`
	Rollno     string            `json:"Rollno"`
	Year       string            `json:"Year"`
	Department string            `json:"Department"`
	Mentor     string            `json:"Mentor"`
	Skills     map[string]string `json:"Skills,omitempty"`
}
