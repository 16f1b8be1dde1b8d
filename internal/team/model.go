package team

// Team is one formed squad. Members always starts with the captain,
// followed by the remaining members in submission order.
type Team struct {
	Captain string   `json:"captain"`
	Members []string `json:"members"`
}

// clone returns a deep copy so callers cannot mutate registry state.
func (t Team) clone() Team {
	members := make([]string, len(t.Members))
	copy(members, t.Members)
	return Team{Captain: t.Captain, Members: members}
}
