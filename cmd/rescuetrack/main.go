package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	Token     string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	u := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, u, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		baseURL = envOr("RESCUETRACK_URL", "http://localhost:8080")
		token   = envOr("RESCUETRACK_TOKEN", "")
		out     = envOr("RESCUETRACK_OUT", "json")
	)

	root := &cobra.Command{
		Use:   "rescuetrack",
		Short: "CLI para la API de RescueTrack",
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base de la API (env RESCUETRACK_URL)")
	root.PersistentFlags().StringVar(&token, "token", token, "Access token (env RESCUETRACK_TOKEN)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{HTTP: &http.Client{Timeout: 30 * time.Second}}
	sync := func() {
		cl.BaseURL = baseURL
		cl.Token = token
		cl.OutFormat = out
	}

	// login imprime el par de tokens; el access va luego en --token.
	var loginEmail, loginPassword string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Login con email y password",
		RunE: func(cmd *cobra.Command, args []string) error {
			sync()
			if loginEmail == "" || loginPassword == "" {
				return fmt.Errorf("se requieren --email y --password")
			}
			body, _ := json.Marshal(map[string]string{"email": loginEmail, "password": loginPassword})
			status, resp, err := cl.do("POST", "/v1/auth/login", body)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			return nil
		},
	}
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password")
	root.AddCommand(loginCmd)

	meCmd := &cobra.Command{
		Use:   "me",
		Short: "Perfil del usuario autenticado",
		RunE: func(cmd *cobra.Command, args []string) error {
			sync()
			status, resp, err := cl.do("GET", "/v1/auth/me", nil)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			return nil
		},
	}
	root.AddCommand(meCmd)

	casesCmd := &cobra.Command{
		Use:   "cases",
		Short: "Operaciones sobre casos",
	}

	var listStatus, listSpecies, listUrgency, listSearch string
	var listPage, listLimit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Listado público de casos",
		RunE: func(cmd *cobra.Command, args []string) error {
			sync()
			q := url.Values{}
			for k, v := range map[string]string{
				"status": listStatus, "species": listSpecies,
				"urgency": listUrgency, "search": listSearch,
			} {
				if v != "" {
					q.Set(k, v)
				}
			}
			if listPage > 0 {
				q.Set("page", fmt.Sprint(listPage))
			}
			if listLimit > 0 {
				q.Set("limit", fmt.Sprint(listLimit))
			}
			path := "/v1/cases"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}
			status, resp, err := cl.do("GET", path, nil)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			return nil
		},
	}
	listCmd.Flags().StringVar(&listStatus, "status", "", "filtro por status")
	listCmd.Flags().StringVar(&listSpecies, "species", "", "filtro por especie")
	listCmd.Flags().StringVar(&listUrgency, "urgency", "", "filtro por urgencia")
	listCmd.Flags().StringVar(&listSearch, "search", "", "texto a buscar")
	listCmd.Flags().IntVar(&listPage, "page", 0, "página (1-based)")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "resultados por página")
	casesCmd.AddCommand(listCmd)

	getCmd := &cobra.Command{
		Use:   "get <case-id>",
		Short: "Detalle de un caso",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sync()
			status, resp, err := cl.do("GET", "/v1/cases/"+url.PathEscape(args[0]), nil)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			return nil
		},
	}
	casesCmd.AddCommand(getCmd)

	var noteText string
	noteCmd := &cobra.Command{
		Use:   "note <case-id>",
		Short: "Agregar una nota a un caso",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sync()
			if noteText == "" {
				return fmt.Errorf("se requiere --text")
			}
			body, _ := json.Marshal(map[string]any{"note": noteText})
			status, resp, err := cl.do("POST", "/v1/cases/"+url.PathEscape(args[0])+"/notes", body)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			return nil
		},
	}
	noteCmd.Flags().StringVar(&noteText, "text", "", "texto de la nota")
	casesCmd.AddCommand(noteCmd)
	root.AddCommand(casesCmd)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Estadísticas públicas agregadas",
		RunE: func(cmd *cobra.Command, args []string) error {
			sync()
			status, resp, err := cl.do("GET", "/v1/stats", nil)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			return nil
		},
	}
	root.AddCommand(statsCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
