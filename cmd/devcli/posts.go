package main

import (
	"strings"

	"github.com/siahsang/devconnector/internal/client/view"
	"github.com/spf13/cobra"
)

func newPostCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "post",
		Aliases: []string{"posts"},
		Short:   "Read and write posts",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, nil); err != nil {
				return err
			}
			if err := s.requireToken(); err != nil {
				return err
			}
			return s.dispatcher.LoadUser(cmd.Context())
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.dispatcher.GetPosts(cmd.Context()); err != nil {
				return err
			}
			return view.RenderPosts(s.out, s.store.Auth(), s.store.Post())
		},
	}

	show := &cobra.Command{
		Use:   "show POST_ID",
		Short: "Show a post with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.showPost(cmd, args[0])
		},
	}

	add := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Create a post",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.dispatcher.GetPosts(cmd.Context()); err != nil {
				return err
			}
			if err := s.dispatcher.AddPost(cmd.Context(), strings.Join(args, " ")); err != nil {
				return err
			}
			return view.RenderPosts(s.out, s.store.Auth(), s.store.Post())
		},
	}

	remove := &cobra.Command{
		Use:   "delete POST_ID",
		Short: "Delete one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.dispatcher.DeletePost(cmd.Context(), args[0])
		},
	}

	like := &cobra.Command{
		Use:   "like POST_ID",
		Short: "Like a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.dispatcher.AddLike(cmd.Context(), args[0]); err != nil {
				return err
			}
			return s.showPost(cmd, args[0])
		},
	}

	unlike := &cobra.Command{
		Use:   "unlike POST_ID",
		Short: "Take back a like",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.dispatcher.RemoveLike(cmd.Context(), args[0]); err != nil {
				return err
			}
			return s.showPost(cmd, args[0])
		},
	}

	comment := &cobra.Command{
		Use:   "comment POST_ID TEXT...",
		Short: "Comment on a post",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.dispatcher.GetPost(cmd.Context(), args[0]); err != nil {
				return err
			}
			if err := s.dispatcher.AddComment(cmd.Context(), args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			return view.RenderPost(s.out, s.store.Auth(), s.store.Post())
		},
	}

	uncomment := &cobra.Command{
		Use:   "uncomment POST_ID COMMENT_ID",
		Short: "Delete one of your comments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.dispatcher.GetPost(cmd.Context(), args[0]); err != nil {
				return err
			}
			if err := s.dispatcher.DeleteComment(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return view.RenderPost(s.out, s.store.Auth(), s.store.Post())
		},
	}

	cmd.AddCommand(list, show, add, remove, like, unlike, comment, uncomment)
	return cmd
}

func (s *session) showPost(cmd *cobra.Command, id string) error {
	if err := s.dispatcher.GetPost(cmd.Context(), id); err != nil {
		return err
	}
	return view.RenderPost(s.out, s.store.Auth(), s.store.Post())
}
