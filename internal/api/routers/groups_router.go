package routers

import (
	"net/http"

	"rent_tracker/internal/api/handlers/groups"
)

func groupsRouter(h *groups.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/groups/create", h.CreateGroupHandler)

	mux.HandleFunc("/groups/", h.GetGroupsHandler)

	mux.HandleFunc("/groups/my", h.GetMyGroupsHandler)

	mux.HandleFunc("/groups/{id}/details", h.GetGroupDetailsHandler)

	mux.HandleFunc("/groups/member/add", h.AddMemberHandler)

	mux.HandleFunc("/groups/member/{id}/remove", h.RemoveMemberHandler)

	return mux
}
