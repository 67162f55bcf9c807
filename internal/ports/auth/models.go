package auth

// Claims es la información extraída del token. Solo el user id viaja en el
// token; el rol se resuelve contra el directorio en cada request.
type Claims struct {
	UserID string
}
